// Falling crates drops a few entities under gravity, syncs them every frame and batches
// their world matrices for rendering.
//
// Profiling:
// go build ./example/fallingCrates
// ./fallingCrates -profile cpu
// go tool pprof -http=":8000" ./fallingCrates cpu.pprof
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/akmonengine/rayforce"
	"github.com/akmonengine/rayforce/actor"
	"github.com/akmonengine/rayforce/entity"
	"github.com/akmonengine/rayforce/logger"
	"github.com/akmonengine/rayforce/visual"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const dt float64 = 1.0 / 60.0

// spinningCrate keeps its body turning around Y by torquing towards a target rate.
// The world integrates the rotation, the entity only reads it back.
type spinningCrate struct {
	world            *rayforce.World
	radiansPerSecond float64
	gain             float64
}

func (c *spinningCrate) Update(e *entity.Entity, dt float64) {
	id, ok := e.BodyID()
	if !ok {
		return
	}
	body, ok := c.world.Body(id)
	if !ok {
		return
	}

	torque := c.gain * (c.radiansPerSecond - body.AngularVelocity.Y())
	if err := c.world.AddTorque(id, mgl64.Vec3{0, torque, 0}); err != nil {
		zap.L().Warn("spin failed", zap.Uint32("entity", e.ID().Index), zap.Error(err))
	}
}

func main() {
	configPath := flag.String("config", "example/fallingCrates/config.yaml", "configuration file")
	frames := flag.Int("frames", 240, "number of frames to simulate")
	profiling := flag.String("profile", "", "cpu or mem")
	flag.Parse()

	switch *profiling {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	if err := run(*configPath, *frames); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, frames int) error {
	config := viper.New()
	config.SetConfigFile(configPath)
	if err := config.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	log, err := logger.New("fallingCrates", config)
	if err != nil {
		return err
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	world := rayforce.NewWorld(
		rayforce.WithSubsteps(config.GetInt("world.substeps")),
		rayforce.WithWorkers(config.GetInt("world.workers")),
	)
	registry, err := visual.LoadRegistry(config)
	if err != nil {
		return err
	}
	buffer := visual.NewInstanceBuffer()

	entityConfig, err := entity.LoadConfig(config)
	if err != nil {
		return err
	}
	metrics, err := entity.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	table, err := entity.NewTable(world, registry, buffer,
		entity.WithConfig(entityConfig),
		entity.WithLogger(log),
		entity.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}
	defer table.Close()

	world.Events.Subscribe(rayforce.CONTACT_ENTER, func(event rayforce.Event) {
		contact := event.(rayforce.ContactEnterEvent)
		a, okA := table.Resolve(contact.BodyA.UserData)
		b, okB := table.Resolve(contact.BodyB.UserData)
		if okA && okB {
			log.Info("contact", zap.Uint32("a", a.ID().Index), zap.Uint32("b", b.ID().Index))
		}
	})
	world.Events.Subscribe(rayforce.ON_SLEEP, func(event rayforce.Event) {
		if e, ok := table.Resolve(event.(rayforce.SleepEvent).Body.UserData); ok {
			log.Info("entity asleep", zap.Uint32("entity", e.ID().Index))
		}
	})

	for i := 0; i < 3; i++ {
		crate := table.Create(mgl64.Vec3{float64(i) * 0.8, 5 + float64(i)*2, 0}, "crate", entity.WithKind(&spinningCrate{world: world, radiansPerSecond: math.Pi / 2, gain: 4}))
		if err := crate.AttachBody(&actor.Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}); err != nil {
			return err
		}
	}
	ball := table.Create(mgl64.Vec3{0, 12, 0}, "ball")
	ball.SetMass(2)
	if err := ball.AttachBody(&actor.Sphere{Radius: 0.4}); err != nil {
		return err
	}
	// gameplay-only marker, never simulated
	marker := table.Create(mgl64.Vec3{0, 0, 0}, "flag")
	marker.SetScale(mgl64.Vec3{0.2, 2, 0.2})

	for frame := 0; frame < frames; frame++ {
		table.Update(dt)
		world.Step(dt)
		if err := table.PullSyncAll(); err != nil {
			log.Warn("pull sync failed", zap.Error(err))
		}

		// teleport the ball back up once it fell far enough
		if ball.Position().Y() < -20 {
			ball.SetPosition(mgl64.Vec3{0, 12, 0})
			ball.SetVelocity(mgl64.Vec3{})
			if err := ball.PushSync(); err != nil {
				return err
			}
			if err := ball.PullSync(); err != nil {
				return err
			}
		}

		table.RenderAll()
		if frame%60 == 0 {
			log.Debug("frame",
				zap.Int("frame", frame),
				zap.Int("instances", buffer.Len()),
				zap.Int("batches", len(buffer.Batches())),
				zap.Float64("ball_y", ball.Position().Y()),
			)
		}
		buffer.Reset()
	}

	return nil
}
