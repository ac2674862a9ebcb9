package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"solarsystem/core"
)

// Shader is a linked program with a cache of uniform locations.
type Shader struct {
	program  uint32
	uniforms map[string]int32
}

// NewShader compiles and links a program from vertex and fragment sources.
func NewShader(vertexSource, fragmentSource string) (*Shader, error) {
	vertShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader error: %w", err)
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader error: %w", err)
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("program link error: %s", strings.TrimRight(log, "\x00"))
	}

	return &Shader{program: program, uniforms: make(map[string]int32)}, nil
}

// compileShader compiles a single shader stage.
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

// Use binds the program.
func (s *Shader) Use() {
	gl.UseProgram(s.program)
}

func (s *Shader) location(name string) int32 {
	if loc, ok := s.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.program, gl.Str(name+"\x00"))
	if loc < 0 {
		core.Logger().Warn("uniform not found in shader", "name", name)
	}
	s.uniforms[name] = loc
	return loc
}

// The setters bind the program first so they can be called at any time.

func (s *Shader) SetMat4(name string, m mgl32.Mat4) {
	s.Use()
	gl.UniformMatrix4fv(s.location(name), 1, false, &m[0])
}

func (s *Shader) SetVec3(name string, v mgl32.Vec3) {
	s.Use()
	gl.Uniform3fv(s.location(name), 1, &v[0])
}

func (s *Shader) SetVec4(name string, v [4]float32) {
	s.Use()
	gl.Uniform4fv(s.location(name), 1, &v[0])
}

func (s *Shader) SetInt(name string, v int32) {
	s.Use()
	gl.Uniform1i(s.location(name), v)
}

func (s *Shader) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	s.SetInt(name, i)
}

// Delete releases the program.
func (s *Shader) Delete() {
	gl.DeleteProgram(s.program)
}

const sceneVertexShader = `
#version 410 core

layout (location = 0) in vec3 a_position;
layout (location = 1) in vec3 a_normal;

uniform mat4 u_model;
uniform mat4 u_view;
uniform mat4 u_projection;

out vec3 v_fragPos;
out vec3 v_normal;

void main() {
    vec4 world = u_model * vec4(a_position, 1.0);
    v_fragPos = world.xyz;
    v_normal = mat3(transpose(inverse(u_model))) * a_normal;
    gl_Position = u_projection * u_view * world;
}
`

const sceneFragmentShader = `
#version 410 core

in vec3 v_fragPos;
in vec3 v_normal;
out vec4 outColor;

uniform vec4 u_color;
uniform vec3 u_lightColor;
uniform vec3 u_lightPos;
uniform vec3 u_viewPos;
uniform int u_shouldEnableLighting;

void main() {
    if (u_shouldEnableLighting == 0) {
        outColor = u_color;
        return;
    }

    vec3 ambient = 0.15 * u_lightColor;

    vec3 norm = normalize(v_normal);
    vec3 lightDir = normalize(u_lightPos - v_fragPos);
    vec3 diffuse = max(dot(norm, lightDir), 0.0) * u_lightColor;

    vec3 viewDir = normalize(u_viewPos - v_fragPos);
    vec3 reflectDir = reflect(-lightDir, norm);
    vec3 specular = 0.5 * pow(max(dot(viewDir, reflectDir), 0.0), 32.0) * u_lightColor;

    outColor = vec4((ambient + diffuse + specular) * u_color.rgb, u_color.a);
}
`
