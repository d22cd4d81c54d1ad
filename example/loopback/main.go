package main

import (
	"flag"
	"os"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/predict"
	"github.com/oomph-ac/pmove/pmove"
	"github.com/oomph-ac/pmove/server"
	"github.com/oomph-ac/pmove/settings"
	"github.com/oomph-ac/pmove/utils"
	"github.com/oomph-ac/pmove/worker"
	"github.com/oomph-ac/pmove/world"
	"github.com/sirupsen/logrus"
)

const actor = 1

var (
	settingsPath = flag.String("settings", "pmove.toml", "settings file, created with defaults if missing")
	latency      = flag.Duration("latency", 120*time.Millisecond, "one way latency of the simulated link")
	duration     = flag.Duration("duration", 20*time.Second, "how long to run")
	demoPath     = flag.String("demo", "", "record the server side of the actor to this file")
)

// The following program runs a server executor and a predicting client in one
// process, connected by a link that delays every message.
func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     false,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	if _, err := os.Stat(*settingsPath); os.IsNotExist(err) {
		if err := settings.SaveDefault(*settingsPath); err != nil {
			log.Fatal(err)
		}
	}
	s, err := settings.Load(*settingsPath)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(s.LogLevel())

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	w := arena()
	spawn := pmove.NewMovementState(mgl32.Vec3{0, 0, 24 + world.DistEpsilon})

	pool := worker.New(s.Server.Workers)
	defer pool.Close()
	group := server.NewGroup(log, pool)
	exec := server.NewExecutor(actor, log, &pmove.Simulator{World: w, Config: s.Movement}, spawn, s.Server.CommandCapacity)
	group.Add(exec)

	if *demoPath != "" {
		f, err := os.Create(*demoPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if err := exec.StartRecording(f); err != nil {
			log.Fatal(err)
		}
		defer func() {
			log.Infof("recorded %d frames to %s", exec.StopRecording(), *demoPath)
		}()
	}

	source := &predict.NetworkSource{}
	clientSim := &pmove.Simulator{World: w, Config: s.Movement}
	if log.IsLevelEnabled(logrus.TraceLevel) {
		clientSim.Debugf = log.Tracef
	}
	pred := predict.NewPredictor(log, clientSim, source, s.Prediction, spawn)
	recon := predict.NewReconciler(log, pred.History(), s.Prediction)

	up := newLink[command](*latency)
	down := newLink[server.Snapshot](*latency)

	tick := time.Duration(s.Server.TickMillis) * time.Millisecond
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	deadline := time.Now().Add(*duration)

	var seq uint32
	for now := range ticker.C {
		if now.After(deadline) {
			break
		}

		// Client: sample input, send it and predict its outcome.
		seq++
		cmd := script(seq, uint8(s.Server.TickMillis))
		up.send(now, command{seq: seq, cmd: cmd})
		if _, err := pred.Issue(seq, cmd); err != nil {
			log.Debugf("issue %d: %v", seq, err)
		}

		// Server: take delivered commands, tick, publish a snapshot.
		for _, c := range up.receive(now) {
			if err := exec.Enqueue(c.seq, c.cmd); err != nil {
				log.Debug(err)
			}
		}
		if seq%400 == 0 {
			// Knock the actor across the arena to exercise teleport handling.
			st := exec.Snapshot().State
			st.Origin = mgl32.Vec3{-400, -400, st.Origin[2]}
			st.Velocity = mgl32.Vec3{}
			exec.SetState(st)
		}
		group.Tick()
		down.send(now, exec.Snapshot().Quantized())

		// Client: reconcile delivered snapshots and render.
		for _, snap := range down.receive(now) {
			source.Receive(snap)
			if outcome := recon.Reconcile(snap.Sequence, snap.State.Origin, now); outcome == predict.OutcomeDiscarded {
				log.Infof("snapshot %d: correction discarded as a teleport", snap.Sequence)
			}
		}
		frame, err := pred.Predict()
		if err != nil {
			log.Debugf("predict: %v", err)
		}
		view := frame.State.Origin.Add(recon.Error(now))

		if seq%60 == 0 {
			stats := recon.Stats()
			extra := orderedmap.NewOrderedMap[string, any]()
			extra.Set("seq", seq)
			extra.Set("acked", pred.Acknowledged().Sequence)
			extra.Set("backlog", pred.Backlog())
			extra.Set("frozen", frame.Frozen)
			extra.Set("view", view)
			extra.Set("err_mean", stats.Mean)
			extra.Set("err_max", stats.Max)
			log.Infof("frame %s", utils.OrderedMapToString(extra))
		}
	}

	st := group.Stats()
	log.Infof("done: %d server ticks, %d commands, %d idle", st.Ticks, st.Processed, st.Starved)
}

// arena is a floor with a staircase, a climbable wall and a pool.
func arena() *world.World {
	w := world.New(world.Solid(cube.Box(-1024, -1024, -64, 1024, 1024, 0)))
	for i := 0; i < 8; i++ {
		x := float32(128 + i*32)
		w.Add(world.Solid(cube.Box(x, -128, 0, x+32, 128, float32(i+1)*12)))
	}
	w.Add(world.Ladder(cube.Box(-512, -64, 0, -496, 64, 384)))
	w.Add(world.Solid(cube.Box(-512, -512, 384, -256, 512, 400)))
	w.Add(world.Liquid(cube.Box(-200, 300, 0, 200, 600, 48), pmove.ContentsWater))
	return w
}

// script produces input that walks in circles and jumps every now and then.
func script(seq uint32, msec uint8) pmove.Command {
	cmd := pmove.Command{
		Msec:    msec,
		Angles:  mgl32.Vec3{0, float32(seq%360) - 180, 0},
		Forward: 300,
	}
	if seq%90 < 3 {
		cmd.Up = 300
	}
	if seq%240 > 200 {
		cmd.Buttons |= pmove.ButtonWalk
	}
	return cmd
}

type command struct {
	seq uint32
	cmd pmove.Command
}

type message[T any] struct {
	at      time.Time
	payload T
}

// link delivers messages a fixed time after they were sent, in order.
type link[T any] struct {
	delay   time.Duration
	pending []message[T]
}

func newLink[T any](delay time.Duration) *link[T] {
	return &link[T]{delay: delay}
}

func (l *link[T]) send(now time.Time, payload T) {
	l.pending = append(l.pending, message[T]{at: now.Add(l.delay), payload: payload})
}

func (l *link[T]) receive(now time.Time) []T {
	var out []T
	n := 0
	for _, m := range l.pending {
		if m.at.After(now) {
			break
		}
		out = append(out, m.payload)
		n++
	}
	l.pending = l.pending[n:]
	return out
}
