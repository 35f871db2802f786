package main

import (
	"flag"
	"log"
	"runtime"
	"time"

	"voxstream/internal/camera"
	"voxstream/internal/config"
	"voxstream/internal/graphics"
	"voxstream/internal/input"
	"voxstream/internal/meshing"
	"voxstream/internal/physics"
	"voxstream/internal/profiling"
	"voxstream/internal/terrain"
	"voxstream/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	windowWidth  = 1280
	windowHeight = 720
)

func init() {
	runtime.LockOSThread()
}

type viewer struct {
	streamer *terrain.ChunkStreamer
	cam      *camera.FreeCam
	shader   *graphics.Shader
	meshes   map[*terrain.Chunk]*graphics.GPUMesh
}

func main() {
	configPath := flag.String("config", "", "settings file (YAML); empty uses defaults")
	fps := flag.Int("fps", 120, "frame rate cap; 0 disables")
	flag.Parse()

	settings := config.Default()
	if *configPath != "" {
		var err error
		if settings, err = config.Load(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	streamer, err := settings.NewStreamer()
	if err != nil {
		log.Fatalf("streamer: %v", err)
	}
	defer streamer.Close()

	if err := glfw.Init(); err != nil {
		log.Fatalf("glfw: %v", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "voxview", nil, nil)
	if err != nil {
		log.Fatalf("window: %v", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(0)

	if err := gl.Init(); err != nil {
		log.Fatalf("gl: %v", err)
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.53, 0.75, 0.92, 1.0)

	shader, err := graphics.NewVoxelShader()
	if err != nil {
		log.Fatalf("shader: %v", err)
	}
	defer shader.Delete()

	v := &viewer{
		streamer: streamer,
		cam:      camera.NewFreeCam(mgl32.Vec3{0, float32(settings.Chunk.SizeY) * 0.75, 0}),
		shader:   shader,
		meshes:   make(map[*terrain.Chunk]*graphics.GPUMesh),
	}
	defer v.release()

	im := input.NewInputManager()
	im.Attach(window)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		v.cam.HandleMouseMovement(x, y)
	})

	limiter := &frameLimiter{fps: *fps}
	showProfile := false
	frames := 0
	last := time.Now()
	fpsTicker := time.NewTicker(time.Second)
	defer fpsTicker.Stop()

	prev := time.Now()
	for !window.ShouldClose() {
		now := time.Now()
		dt := now.Sub(prev).Seconds()
		prev = now
		profiling.ResetFrame()

		if im.JustPressed(input.ActionQuit) {
			window.SetShouldClose(true)
		}
		if im.JustPressed(input.ActionToggleProfiling) {
			showProfile = !showProfile
		}
		if im.JustPressed(input.ActionRemoveVoxel) {
			v.removeVoxel()
		}
		if im.JustPressed(input.ActionPlaceVoxel) {
			v.placeVoxel()
		}
		v.cam.Move(dt,
			im.Axis(input.ActionMoveForward, input.ActionMoveBackward),
			im.Axis(input.ActionMoveRight, input.ActionMoveLeft),
			im.Axis(input.ActionMoveUp, input.ActionMoveDown))

		v.streamer.Tick(v.cam.Position)

		fbw, fbh := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbw), int32(fbh))
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		v.draw(float32(fbw) / float32(max(fbh, 1)))

		window.SwapBuffers()
		im.PostUpdate()
		glfw.PollEvents()
		limiter.Wait()

		frames++
		select {
		case <-fpsTicker.C:
			elapsed := time.Since(last).Seconds()
			if elapsed > 0 && showProfile {
				log.Printf("fps %d view %v pending %d | %s", int(float64(frames)/elapsed+0.5), v.streamer.View(), v.streamer.Pending(), profiling.TopN(3))
			}
			frames = 0
			last = time.Now()
		default:
		}
	}
}

func (v *viewer) draw(aspect float32) {
	defer profiling.Track("voxview.draw")()
	v.shader.Use()
	v.shader.SetMatrix4("proj", v.cam.Projection(aspect))
	v.shader.SetMatrix4("view", v.cam.View())
	v.shader.SetVector3("lightDir", mgl32.Vec3{-0.4, -1, -0.3})

	for _, ch := range v.streamer.Chunks() {
		if ch.State() != terrain.StateMeshed {
			continue
		}
		m, ok := v.meshes[ch]
		if !ok {
			m = graphics.NewGPUMesh()
			v.meshes[ch] = m
		}
		m.Sync(ch.Mesh(), ch.Version())
		v.shader.SetVector3("chunkOrigin", ch.Origin())
		m.Draw()
	}
	gl.BindVertexArray(0)
}

func (v *viewer) target() (physics.RaycastResult, bool) {
	hit := physics.Raycast(v.cam.Position, v.cam.Front(), physics.MinReachDistance, physics.MaxReachDistance, v.streamer.Pools())
	return hit, hit.Hit
}

func (v *viewer) removeVoxel() {
	if hit, ok := v.target(); ok {
		v.streamer.EditAt(voxelPos(hit.HitPosition), world.VoxelAir)
	}
}

// placeVoxel puts stone against the targeted face unless it would enclose the camera.
func (v *viewer) placeVoxel() {
	hit, ok := v.target()
	if !ok {
		return
	}
	pos := voxelPos(hit.AdjacentPosition)
	if physics.Collides(v.cam.Position.Sub(mgl32.Vec3{0, 0.5, 0}), 0.3, 1, []*physics.ColliderPool{unitPool(pos)}) {
		return
	}
	v.streamer.EditAt(pos, world.VoxelStone)
}

func voxelPos(p [3]int) mgl32.Vec3 {
	return mgl32.Vec3{float32(p[0]), float32(p[1]), float32(p[2])}
}

// unitPool wraps a single voxel-sized collider so placement can be tested
// against the camera body.
func unitPool(center mgl32.Vec3) *physics.ColliderPool {
	p := physics.NewColliderPool(1)
	p.Update(unitBox, center)
	return p
}

var unitBox = []meshing.Box{{DX: 1, DY: 1, DZ: 1}}

func (v *viewer) release() {
	for _, m := range v.meshes {
		m.Delete()
	}
}
