package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/GiovanniGrieco/joy/internal/command"
	"github.com/GiovanniGrieco/joy/internal/drone"
	"github.com/GiovanniGrieco/joy/internal/flightlog"
	"github.com/GiovanniGrieco/joy/internal/input"
	"github.com/GiovanniGrieco/joy/internal/sched"
)

// Run wires the control pipeline and blocks until the context is cancelled
// or the joystick fails. The pipeline is: poll joystick -> filter and map ->
// coalesce in the scheduler -> transmit over UDP on each tick.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	mapping, err := config.buttonTable()
	if err != nil {
		return err
	}

	filter, err := input.NewFilter(config.Joystick.DeadZone, config.Joystick.AxisDeadZones)
	if err != nil {
		return fmt.Errorf("configuring input filter: %w", err)
	}

	dev, err := input.OpenDevice(config.Joystick.ID)
	if err != nil {
		return err
	}
	defer dev.Close()

	logger.Info("joystick connected",
		slog.String("name", dev.Name()),
		slog.Int("axes", dev.AxisCount()),
		slog.Int("buttons", dev.ButtonCount()),
		slog.String("mapping", mapping.Name))

	link, err := drone.Dial(config.Drone.Host, config.Drone.Port,
		drone.WithLogger(logger), drone.WithSendTimeout(config.sendTimeout()))
	if err != nil {
		return err
	}
	defer link.Close()

	schedOptions := []func(*sched.Scheduler){
		sched.WithLogger(logger),
		sched.WithTickInterval(config.tickInterval()),
	}

	if config.Log.Enabled {
		store, sessionID, err := createFlightLog(ctx, config, dev.Name())
		if err != nil {
			return err
		}
		defer store.Close()

		recorder := flightlog.NewRecorder(store, sessionID, flightlog.WithRecorderLogger(logger))
		defer recorder.Close()

		schedOptions = append(schedOptions, sched.WithSendObserver(recorder.Observe))
		logger.Info("flight log enabled", slog.Int64("session", sessionID))
	}

	mapper := command.NewMapper(filter, mapping, command.WithLogger(logger))
	scheduler := sched.New(link, schedOptions...)

	// The drone ignores everything until it has been switched into command
	// mode. Failure here is not fatal: the operator can map a button to
	// enter-sdk and retry once the drone is reachable.
	if err = link.Send(command.Command{Kind: command.EnterSDK}); err != nil {
		logger.Warn("entering SDK mode failed", slog.Any("error", err))
	}

	onState := func(axes []int16) {
		scheduler.SetMovement(mapper.MapAxes(axes))
	}
	onPress := func(button int) {
		cmd, ok := mapper.MapButton(button)
		if !ok {
			return
		}
		if cmd.Kind == command.Emergency {
			if err := scheduler.Emergency(); err != nil {
				logger.Error("sending emergency stop failed", slog.Any("error", err))
			}
			return
		}
		scheduler.SetDiscrete(cmd)
	}

	poller := input.NewPoller(dev, onState, onPress,
		input.WithLogger(logger), input.WithPollInterval(config.pollInterval()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loops := make(chan error, 2)
	go func() { loops <- poller.Run(ctx) }()
	go func() { loops <- scheduler.Run(ctx) }()

	first := <-loops
	cancel()
	second := <-loops

	// Best effort: leave the drone landing rather than relying purely on its
	// own link-loss failsafe.
	if lErr := link.Send(command.Command{Kind: command.Land}); lErr != nil {
		logger.Warn("landing command on shutdown failed", slog.Any("error", lErr))
	}

	return errors.Join(first, second)
}

func createFlightLog(ctx context.Context, config *Config, deviceName string) (*flightlog.Store, int64, error) {
	dir := config.Log.DataDirectory
	stat, err := os.Stat(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("flight log directory '%s': %w", dir, err)
	}
	if !stat.IsDir() {
		return nil, 0, fmt.Errorf("flight log path '%s' is not a directory", dir)
	}

	dbPath := filepath.Join(dir, fmt.Sprintf("flight_%s.sqlite", time.Now().UTC().Format("20060102_150405")))
	store := flightlog.New(dbPath)

	sessionID, err := store.CreateSession(ctx, deviceName, config.Joystick.Mapping, config)
	if err != nil {
		_ = store.Close()
		return nil, 0, fmt.Errorf("creating flight log session: %w", err)
	}

	return store, sessionID, nil
}
