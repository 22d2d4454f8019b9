package renderer

const waterVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos; // water-local, on the XY plane

uniform sampler2D heightmap;
uniform mat4 tf_water_to_world;
uniform mat4 view;
uniform mat4 projection;
uniform float bounds;

out vec3 vWorld;
out vec3 vNormal;
out float vVelocity;

float heightAt(ivec2 cell, ivec2 size) {
    return texelFetch(heightmap, clamp(cell, ivec2(0), size - 1), 0).r;
}

void main() {
    ivec2 size = textureSize(heightmap, 0);
    float width = float(size.x);
    ivec2 cell = ivec2(floor(aPos.xy * width / bounds + width / 2.0 + 0.5));

    vec4 texel = texelFetch(heightmap, clamp(cell, ivec2(0), size - 1), 0);
    float dx = heightAt(cell + ivec2(1, 0), size) - heightAt(cell - ivec2(1, 0), size);
    float dy = heightAt(cell + ivec2(0, 1), size) - heightAt(cell - ivec2(0, 1), size);
    float cellSize = bounds / width;

    vec4 world = tf_water_to_world * vec4(aPos.xy, texel.r, 1.0);
    vWorld = world.xyz;
    vNormal = normalize(mat3(tf_water_to_world) * vec3(-dx, -dy, 2.0 * cellSize));
    vVelocity = texel.g;
    gl_Position = projection * view * world;
}
`

const waterFragmentShader = `#version 410 core
in vec3 vWorld;
in vec3 vNormal;
in float vVelocity;

uniform vec3 cameraPosition;
uniform vec3 lightDir;

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    vec3 toEye = normalize(cameraPosition - vWorld);
    float facing = max(dot(n, toEye), 0.0);
    vec3 deep = vec3(0.02, 0.15, 0.3);
    vec3 shallow = vec3(0.2, 0.55, 0.7);
    vec3 color = mix(shallow, deep, facing) + vec3(clamp(abs(vVelocity) * 2.0, 0.0, 0.3));
    float highlight = pow(max(dot(reflect(-lightDir, n), toEye), 0.0), 64.0);
    color += vec3(highlight * 0.5);
    FragColor = vec4(color, 1.0);
}
`

const agentVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 tf_agent_to_world;
uniform mat4 view;
uniform mat4 projection;

out vec3 vWorld;
out vec3 vNormal;

void main() {
    vec4 world = tf_agent_to_world * vec4(aPos, 1.0);
    vWorld = world.xyz;
    vNormal = mat3(tf_agent_to_world) * aNormal;
    gl_Position = projection * view * world;
}
`

// The agent samples the same heightmap as the water to darken the part of
// the sphere below the local surface and to mark its waterline.
const agentFragmentShader = `#version 410 core
in vec3 vWorld;
in vec3 vNormal;

uniform sampler2D heightmap;
uniform mat4 tf_world_to_water;
uniform float bounds;
uniform float agentWaterHeight;
uniform vec3 agentPosition;
uniform vec3 lightDir;

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    vec3 color = vec3(0.9, 0.45, 0.1) * (0.3 + 0.7 * max(dot(n, lightDir), 0.0));

    vec3 local = (tf_world_to_water * vec4(vWorld, 1.0)).xyz;
    ivec2 size = textureSize(heightmap, 0);
    float width = float(size.x);
    vec2 grid = local.xy * width / bounds + width / 2.0;
    float surface = texelFetch(heightmap, clamp(ivec2(grid), ivec2(0), size - 1), 0).r;

    if (local.z < surface) {
        color = mix(color, vec3(0.05, 0.2, 0.35), 0.6);
    }
    if (abs(local.z - agentWaterHeight) < 0.5) {
        color = vec3(1.0);
    }
    FragColor = vec4(color, 1.0);
}
`
