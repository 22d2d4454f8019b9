package gpu

// Program-local uniforms set once at creation.
const (
	uniformWidth      = "width"
	uniformBoundary   = "boundaryFixed"
	uniformRestHeight = "restHeight"
)

// passVertexShader draws one triangle covering the viewport, no attributes.
const passVertexShader = `#version 410 core
void main() {
    vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
    gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
`

// stepFragmentShader advances one cell. It must stay in step with
// water.CPUStage.Cell.
const stepFragmentShader = `#version 410 core
uniform sampler2D heightmap;
uniform vec2 mousePos;
uniform float mouseSize;
uniform float mouseStrength;
uniform float viscosityConstant;
uniform float heightCompensation;
uniform int width;
uniform int boundaryFixed;
uniform float restHeight;

out vec4 fragColor;

const float PI = 3.14159265358979;

float neighbor(ivec2 p, float self) {
    if (p.x < 0 || p.y < 0 || p.x >= width || p.y >= width) {
        return boundaryFixed == 1 ? restHeight : self;
    }
    return texelFetch(heightmap, p, 0).r;
}

void main() {
    ivec2 cell = ivec2(gl_FragCoord.xy);
    vec4 prev = texelFetch(heightmap, cell, 0);
    float h = prev.r;
    float v = prev.g;

    float north = neighbor(cell + ivec2(0, 1), h);
    float south = neighbor(cell - ivec2(0, 1), h);
    float east = neighbor(cell + ivec2(1, 0), h);
    float west = neighbor(cell - ivec2(1, 0), h);
    float avg = (north + south + east + west) / 4.0;

    float next = avg;
    if (viscosityConstant != 1.0) {
        next = viscosityConstant * avg + (1.0 - viscosityConstant) * (h + v);
    }

    float d = length(vec2(cell) - mousePos);
    if (d <= mouseSize) {
        next += mouseStrength * (cos(PI * d / (mouseSize + 1.0)) + 1.0) / 2.0;
    }

    if (cell.x == 0 || cell.y == 0 || cell.x == width - 1 || cell.y == width - 1) {
        next -= heightCompensation * (next - restHeight);
    }

    fragColor = vec4(next, next - h, 0.0, 0.0);
}
`
