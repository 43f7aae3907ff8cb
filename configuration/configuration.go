// Package configuration reads the host's settings: environment variables
// give the defaults, command-line flags override them.
package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env"
	"gopkg.in/alecthomas/kingpin.v2"
)

type Configuration struct {
	Debug          string        `env:"LEDBEAT_DEBUG" envDefault:"none"`
	Verbose        bool          `env:"LEDBEAT_VERBOSE" envDefault:"false"`
	Scene          string        `env:"LEDBEAT_SCENE" envDefault:"scene.yaml"`
	Tick           time.Duration `env:"LEDBEAT_TICK" envDefault:"10ms"`
	PrometheusAddr string        `env:"LEDBEAT_PROMETHEUS_ADDR" envDefault:":9090"`
	Strip          StripConfiguration
	Power          PowerConfiguration
}

type StripConfiguration struct {
	Chip       string `env:"LEDBEAT_CHIP" envDefault:"memory"`
	Pixels     int    `env:"LEDBEAT_PIXELS" envDefault:"160"`
	Order      string `env:"LEDBEAT_ORDER" envDefault:"GRB"`
	SPIPort    string `env:"LEDBEAT_SPI_PORT" envDefault:""`
	SPISpeed   int64  `env:"LEDBEAT_SPI_SPEED" envDefault:"1000000"`
	OPCAddr    string `env:"LEDBEAT_OPC_ADDR" envDefault:"localhost:7890"`
	OPCChannel int    `env:"LEDBEAT_OPC_CHANNEL" envDefault:"0"`
	MMapPath   string `env:"LEDBEAT_MMAP_PATH" envDefault:"/tmp/ledbeat.strip"`
}

type PowerConfiguration struct {
	CtrlPin    string        `env:"LEDBEAT_POWER_CTRL_PIN" envDefault:""`
	StatusPin  string        `env:"LEDBEAT_POWER_STATUS_PIN" envDefault:""`
	StatusWait time.Duration `env:"LEDBEAT_POWER_STATUS_WAIT" envDefault:"2s"`
}

var Chips = []string{"memory", "lpd8806", "opc", "mmap"}

// GetConfigFromArgs reads the environment, then parses args (without the
// program name) on top of it.
func GetConfigFromArgs(args []string) (Configuration, error) {
	var cfg Configuration
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}
	if err := env.Parse(&cfg.Strip); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}
	if err := env.Parse(&cfg.Power); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}

	a := kingpin.New(filepath.Base(os.Args[0]), "ledbeat")
	a.HelpFlag.Short('h')
	a.Flag("debug", "Debug mode: none, print or dryrun").Default(cfg.Debug).EnumVar(&cfg.Debug, "none", "print", "dryrun")
	a.Flag("verbose", "Log debug messages").Short('v').Default(strconv.FormatBool(cfg.Verbose)).BoolVar(&cfg.Verbose)
	a.Flag("scene", "YAML file describing the effects to run").Short('s').Default(cfg.Scene).StringVar(&cfg.Scene)
	a.Flag("tick", "How often effects are polled").Default(cfg.Tick.String()).DurationVar(&cfg.Tick)
	a.Flag("prometheus", "Prometheus metrics listen address, empty to disable").Default(cfg.PrometheusAddr).StringVar(&cfg.PrometheusAddr)
	a.Flag("ledchip", "The type of LED strip to drive").Default(cfg.Strip.Chip).EnumVar(&cfg.Strip.Chip, Chips...)
	a.Flag("pixels", "The number of pixels to be controlled, if the scene doesn't say").Default(strconv.Itoa(cfg.Strip.Pixels)).IntVar(&cfg.Strip.Pixels)
	a.Flag("order", "The color ordering of the pixels").Default(cfg.Strip.Order).StringVar(&cfg.Strip.Order)
	a.Flag("spi-port", "The SPI port LPD8806 LEDs are connected to, empty for the first").Default(cfg.Strip.SPIPort).StringVar(&cfg.Strip.SPIPort)
	a.Flag("spi-speed", "The speed to send data via SPI to LPD8806s, in Hz").Default(strconv.FormatInt(cfg.Strip.SPISpeed, 10)).Int64Var(&cfg.Strip.SPISpeed)
	a.Flag("opc-addr", "Address of the Open Pixel Control server").Default(cfg.Strip.OPCAddr).StringVar(&cfg.Strip.OPCAddr)
	a.Flag("opc-channel", "Open Pixel Control channel").Default(strconv.Itoa(cfg.Strip.OPCChannel)).IntVar(&cfg.Strip.OPCChannel)
	a.Flag("mmap-path", "File the strip is mirrored into for the mmap chip").Default(cfg.Strip.MMapPath).StringVar(&cfg.Strip.MMapPath)
	a.Flag("power-ctrl-pin", "A GPIO pin which, when set high, turns on power for the LEDs. Empty means no such pin exists.").Default(cfg.Power.CtrlPin).StringVar(&cfg.Power.CtrlPin)
	a.Flag("power-status-pin", "A GPIO pin which indicates healthy power to the LEDs. Only relevant if power-ctrl-pin is specified.").Default(cfg.Power.StatusPin).StringVar(&cfg.Power.StatusPin)
	a.Flag("power-status-wait", "How long to wait for a healthy power signal").Default(cfg.Power.StatusWait.String()).DurationVar(&cfg.Power.StatusWait)

	if _, err := a.Parse(args); err != nil {
		return cfg, fmt.Errorf("invalid command line arguments: %w", err)
	}
	if cfg.Strip.Pixels <= 0 {
		return cfg, fmt.Errorf("pixels must be positive, got %d", cfg.Strip.Pixels)
	}
	if cfg.Strip.OPCChannel < 0 || cfg.Strip.OPCChannel > 255 {
		return cfg, fmt.Errorf("opc-channel must be 0-255, got %d", cfg.Strip.OPCChannel)
	}
	if cfg.Tick <= 0 {
		return cfg, fmt.Errorf("tick must be positive, got %v", cfg.Tick)
	}
	return cfg, nil
}
