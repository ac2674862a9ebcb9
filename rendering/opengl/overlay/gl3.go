package overlay

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/inkyblackness/imgui-go/v4"
)

const uiVertexShader = `
#version 410 core

uniform mat4 ProjMtx;
in vec2 Position;
in vec2 UV;
in vec4 Color;
out vec2 Frag_UV;
out vec4 Frag_Color;

void main() {
    Frag_UV = UV;
    Frag_Color = Color;
    gl_Position = ProjMtx * vec4(Position.xy, 0, 1);
}
`

const uiFragmentShader = `
#version 410 core

uniform sampler2D Texture;
in vec2 Frag_UV;
in vec4 Frag_Color;
out vec4 Out_Color;

void main() {
    Out_Color = vec4(Frag_Color.rgb, Frag_Color.a * texture(Texture, Frag_UV.st).r);
}
`

// OpenGL3 draws imgui draw data with an OpenGL 3.2+ core context.
type OpenGL3 struct {
	io imgui.IO

	fontTexture uint32
	program     uint32

	locTex      int32
	locProjMtx  int32
	locPosition int32
	locUV       int32
	locColor    int32

	vbo, ebo uint32
}

// NewOpenGL3 creates the UI shader, buffers and font atlas texture. The GL
// context must be current.
func NewOpenGL3(io imgui.IO) (*OpenGL3, error) {
	r := &OpenGL3{io: io}
	if err := r.createDeviceObjects(); err != nil {
		return nil, err
	}
	io.SetBackendFlags(io.GetBackendFlags() | imgui.BackendFlagsRendererHasVtxOffset)
	return r, nil
}

// Render draws data, restoring the GL state the scene relies on afterwards.
func (r *OpenGL3) Render(displaySize, framebufferSize [2]float32, data imgui.DrawData) {
	displayWidth, displayHeight := displaySize[0], displaySize[1]
	fbWidth, fbHeight := framebufferSize[0], framebufferSize[1]
	if fbWidth <= 0 || fbHeight <= 0 || displayWidth <= 0 || displayHeight <= 0 {
		return
	}
	data.ScaleClipRects(imgui.Vec2{X: fbWidth / displayWidth, Y: fbHeight / displayHeight})

	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.SCISSOR_TEST)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	ortho := [4][4]float32{
		{2.0 / displayWidth, 0.0, 0.0, 0.0},
		{0.0, 2.0 / -displayHeight, 0.0, 0.0},
		{0.0, 0.0, -1.0, 0.0},
		{-1.0, 1.0, 0.0, 1.0},
	}
	gl.UseProgram(r.program)
	gl.Uniform1i(r.locTex, 0)
	gl.UniformMatrix4fv(r.locProjMtx, 1, false, &ortho[0][0])
	gl.ActiveTexture(gl.TEXTURE0)

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.EnableVertexAttribArray(uint32(r.locPosition))
	gl.EnableVertexAttribArray(uint32(r.locUV))
	gl.EnableVertexAttribArray(uint32(r.locColor))
	vertexSize, offsetPos, offsetUV, offsetCol := imgui.VertexBufferLayout()
	gl.VertexAttribPointerWithOffset(uint32(r.locPosition), 2, gl.FLOAT, false, int32(vertexSize), uintptr(offsetPos))
	gl.VertexAttribPointerWithOffset(uint32(r.locUV), 2, gl.FLOAT, false, int32(vertexSize), uintptr(offsetUV))
	gl.VertexAttribPointerWithOffset(uint32(r.locColor), 4, gl.UNSIGNED_BYTE, true, int32(vertexSize), uintptr(offsetCol))

	indexSize := imgui.IndexBufferLayout()
	drawType := uint32(gl.UNSIGNED_SHORT)
	if indexSize == 4 {
		drawType = gl.UNSIGNED_INT
	}

	for _, list := range data.CommandLists() {
		vertexBuffer, vertexBufferSize := list.VertexBuffer()
		gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, vertexBufferSize, vertexBuffer, gl.STREAM_DRAW)

		indexBuffer, indexBufferSize := list.IndexBuffer()
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, indexBufferSize, indexBuffer, gl.STREAM_DRAW)

		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() {
				cmd.CallUserCallback(list)
				continue
			}
			gl.BindTexture(gl.TEXTURE_2D, uint32(cmd.TextureID()))
			clip := cmd.ClipRect()
			gl.Scissor(int32(clip.X), int32(fbHeight)-int32(clip.W), int32(clip.Z-clip.X), int32(clip.W-clip.Y))
			gl.DrawElementsBaseVertexWithOffset(gl.TRIANGLES, int32(cmd.ElementCount()), drawType,
				uintptr(cmd.IndexOffset()*indexSize), int32(cmd.VertexOffset()))
		}
	}
	gl.DeleteVertexArrays(1, &vao)

	gl.Disable(gl.SCISSOR_TEST)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (r *OpenGL3) createDeviceObjects() error {
	vert, err := compileShader(uiVertexShader, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("ui vertex shader: %w", err)
	}
	defer gl.DeleteShader(vert)
	frag, err := compileShader(uiFragmentShader, gl.FRAGMENT_SHADER)
	if err != nil {
		return fmt.Errorf("ui fragment shader: %w", err)
	}
	defer gl.DeleteShader(frag)

	r.program = gl.CreateProgram()
	gl.AttachShader(r.program, vert)
	gl.AttachShader(r.program, frag)
	gl.LinkProgram(r.program)

	var status int32
	gl.GetProgramiv(r.program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(r.program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(r.program, logLength, nil, gl.Str(log))
		return fmt.Errorf("ui shader link failed: %s", strings.TrimRight(log, "\x00"))
	}

	r.locTex = gl.GetUniformLocation(r.program, gl.Str("Texture\x00"))
	r.locProjMtx = gl.GetUniformLocation(r.program, gl.Str("ProjMtx\x00"))
	r.locPosition = gl.GetAttribLocation(r.program, gl.Str("Position\x00"))
	r.locUV = gl.GetAttribLocation(r.program, gl.Str("UV\x00"))
	r.locColor = gl.GetAttribLocation(r.program, gl.Str("Color\x00"))

	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.ebo)

	r.createFontsTexture()
	return nil
}

func (r *OpenGL3) createFontsTexture() {
	image := r.io.Fonts().TextureDataAlpha8()

	gl.GenTextures(1, &r.fontTexture)
	gl.BindTexture(gl.TEXTURE_2D, r.fontTexture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(image.Width), int32(image.Height),
		0, gl.RED, gl.UNSIGNED_BYTE, image.Pixels)

	r.io.Fonts().SetTextureID(imgui.TextureID(r.fontTexture))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Destroy releases the GPU objects.
func (r *OpenGL3) Destroy() {
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteBuffers(1, &r.ebo)
	gl.DeleteProgram(r.program)
	if r.fontTexture != 0 {
		gl.DeleteTextures(1, &r.fontTexture)
		r.io.Fonts().SetTextureID(0)
	}
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
