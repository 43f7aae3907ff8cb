package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jon-Bright/ledbeat/beat"
	"github.com/Jon-Bright/ledbeat/configuration"
	"github.com/Jon-Bright/ledbeat/effects"
	"github.com/Jon-Bright/ledbeat/logging"
	"github.com/Jon-Bright/ledbeat/pixarray"
	"github.com/Jon-Bright/ledbeat/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const statusLogInterval = time.Minute

// Server runs every range and the indicator from one loop. Nothing else may
// touch them while Run is active.
type Server struct {
	strip     *pixarray.Strip
	ranges    []scene.NamedRange
	indicator *effects.Indicator
	power     *Power
	metrics   *metrics
	tick      time.Duration
	status    beat.Timer
	frames    uint64
	logger    *zap.SugaredLogger
}

func NewServer(strip *pixarray.Strip, ranges []scene.NamedRange, indicator *effects.Indicator, power *Power, reg prometheus.Registerer, tick time.Duration) *Server {
	return &Server{
		strip:     strip,
		ranges:    ranges,
		indicator: indicator,
		power:     power,
		metrics:   newMetrics(reg),
		tick:      tick,
		status:    beat.NewTimer(beat.System, statusLogInterval),
		logger:    logging.New("server"),
	}
}

func (s *Server) active() bool {
	for _, r := range s.ranges {
		if !r.Range.Empty() {
			return true
		}
	}
	return false
}

// step is one pass of the loop: power up if there's anything to show,
// update everything, power down once there's nothing left.
func (s *Server) step(ctx context.Context) error {
	if !s.power.IsOn() && s.active() {
		if err := s.power.On(ctx); err != nil {
			return fmt.Errorf("failed power-on: %w", err)
		}
		s.metrics.power(true)
	}
	for _, r := range s.ranges {
		shown, err := r.Range.Update()
		s.metrics.update(r.Name, shown, err)
		if err != nil {
			s.logger.Warnw("range update failed", "range", r.Name, zap.Error(err))
		}
		if shown {
			s.frames++
		}
	}
	if s.indicator != nil {
		shown, err := s.indicator.Update()
		s.metrics.update("indicator", shown, err)
		if err != nil {
			s.logger.Warnw("indicator update failed", zap.Error(err))
		}
	}
	if s.power.IsOn() && !s.active() && s.strip.Dark() {
		if err := s.power.Off(); err != nil {
			return fmt.Errorf("failed power-off: %w", err)
		}
		s.metrics.power(false)
	}
	if s.status.Elapsed() {
		s.logger.Infow("running", "frames", s.frames, "shows", s.strip.Shows(), "power", s.power.IsOn())
		s.status.Reset(statusLogInterval)
	}
	return nil
}

// Run loops until ctx is cancelled, then blanks the strip and cuts power.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	s.logger.Infow("started", "ranges", len(s.ranges), "tick", s.tick)
	for {
		select {
		case <-ctx.Done():
			return s.shutdown()
		case <-ticker.C:
			if err := s.step(ctx); err != nil {
				if ctx.Err() != nil {
					return s.shutdown()
				}
				return err
			}
		}
	}
}

func (s *Server) shutdown() error {
	s.logger.Infow("stopping", "frames", s.frames)
	for _, r := range s.ranges {
		if err := r.Range.Clear(); err != nil {
			return fmt.Errorf("couldn't clear range %s: %w", r.Name, err)
		}
	}
	if err := s.power.Off(); err != nil {
		return err
	}
	s.metrics.power(false)
	return nil
}

func openDevice(cfg configuration.StripConfiguration) (pixarray.Device, io.Closer, error) {
	order, err := pixarray.ParseOrder(cfg.Order)
	if err != nil {
		return nil, nil, err
	}
	switch cfg.Chip {
	case "memory":
		return pixarray.NewMemory(cfg.Pixels), nil, nil
	case "lpd8806":
		l, port, err := pixarray.OpenLPD8806(cfg.SPIPort, physic.Frequency(cfg.SPISpeed)*physic.Hertz, cfg.Pixels, order)
		if err != nil {
			return nil, nil, err
		}
		return l, port, nil
	case "opc":
		o, err := pixarray.DialOPC(cfg.OPCAddr, uint8(cfg.OPCChannel), cfg.Pixels)
		if err != nil {
			return nil, nil, err
		}
		return o, nil, nil
	case "mmap":
		m, err := pixarray.OpenMMapFile(cfg.MMapPath, cfg.Pixels, order)
		if err != nil {
			return nil, nil, err
		}
		return m, m, nil
	}
	return nil, nil, fmt.Errorf("unrecognized LED type: %v", cfg.Chip)
}

// statusDevice backs the indicator: the next OPC channel when talking OPC,
// memory otherwise.
func statusDevice(cfg configuration.StripConfiguration) (pixarray.Device, error) {
	if cfg.Chip == "opc" && cfg.OPCChannel < 255 {
		o, err := pixarray.DialOPC(cfg.OPCAddr, uint8(cfg.OPCChannel+1), 1)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
	return pixarray.NewMemory(1), nil
}

func closeDevice(c io.Closer, logger *zap.SugaredLogger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logger.Warnw("couldn't close device", zap.Error(err))
	}
}

func main() {
	cfg, err := configuration.GetConfigFromArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.Verbose {
		logging.SetAll(zap.DebugLevel)
	}
	logger := logging.New("ledbeat")

	mode, err := pixarray.ParseDebugMode(cfg.Debug)
	if err != nil {
		logger.Fatalw("bad debug mode", zap.Error(err))
	}
	sc, err := scene.Load(cfg.Scene)
	if err != nil {
		logger.Fatalw("failed loading scene", "scene", cfg.Scene, zap.Error(err))
	}
	if sc.Pixels > 0 {
		cfg.Strip.Pixels = sc.Pixels
	}

	if cfg.Strip.Chip == "lpd8806" || cfg.Power.CtrlPin != "" {
		if _, err := host.Init(); err != nil {
			logger.Fatalw("failed initialising host drivers", zap.Error(err))
		}
	}

	dev, closer, err := openDevice(cfg.Strip)
	if err != nil {
		logger.Fatalw("failed opening LEDs", "chip", cfg.Strip.Chip, zap.Error(err))
	}
	strip := pixarray.NewStrip(dev, mode)
	if err := strip.Init(); err != nil {
		logger.Fatalw("failed initialising strip", zap.Error(err))
	}

	opts := effects.Options{}
	ranges, err := sc.Build(strip, opts)
	if err != nil {
		logger.Fatalw("failed building scene", zap.Error(err))
	}

	var indicator *effects.Indicator
	if sc.Indicator != nil {
		sdev, err := statusDevice(cfg.Strip)
		if err != nil {
			logger.Fatalw("failed opening status pixel", zap.Error(err))
		}
		sstrip := pixarray.NewStrip(sdev, mode)
		if err := sstrip.Init(); err != nil {
			logger.Fatalw("failed initialising status pixel", zap.Error(err))
		}
		indicator, err = sc.BuildIndicator(sstrip, opts)
		if err != nil {
			logger.Fatalw("failed building indicator", zap.Error(err))
		}
	}

	power, err := OpenPower(cfg.Power)
	if err != nil {
		logger.Fatalw("failed opening power pins", zap.Error(err))
	}
	if err := power.Init(); err != nil {
		logger.Fatalw("failed initialising power pins", zap.Error(err))
	}

	if cfg.PrometheusAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.PrometheusAddr, nil); !errors.Is(err, http.ErrServerClosed) {
				logger.Errorw("prometheus listener stopped", zap.Error(err))
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	s := NewServer(strip, ranges, indicator, power, prometheus.DefaultRegisterer, cfg.Tick)
	err = s.Run(ctx)
	cancel()
	closeDevice(closer, logger)
	if err != nil {
		logger.Errorw("stopped", zap.Error(err))
		os.Exit(1)
	}
}
