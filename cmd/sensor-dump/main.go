package main

import (
	"context"
	"flag"
	"io"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"localization-field/internal/agent"
	"localization-field/internal/config"
	"localization-field/internal/field"
	"localization-field/internal/logging"
	"localization-field/internal/sensor"
)

type readingReport struct {
	Slot     string  `yaml:"slot"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Distance float64 `yaml:"distance"`
}

type estimateReport struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Heading   float64 `yaml:"heading"`
	RMS       float64 `yaml:"rms"`
	Evaluated int     `yaml:"evaluated"`
}

type report struct {
	Scenario string          `yaml:"scenario"`
	Readings []readingReport `yaml:"readings"`
	Estimate *estimateReport `yaml:"estimate,omitempty"`
}

func buildReport(w *field.World, readings [field.SensorCount]sensor.Reading) report {
	r := report{Scenario: w.ScenarioID}
	dist := sensor.Distances(readings)
	for i, rd := range readings {
		r.Readings = append(r.Readings, readingReport{
			Slot:     sensor.Slots[i].String(),
			X:        rd.Position.X,
			Y:        rd.Position.Y,
			Distance: dist[i],
		})
	}
	return r
}

func localize(ctx context.Context, cfg agent.Config, w *field.World, readings [field.SensorCount]sensor.Reading) (*estimateReport, error) {
	ag, err := agent.NewAgent(cfg)
	if err != nil {
		return nil, err
	}
	est, err := ag.Localize(ctx, agent.MapOf(w), agent.Observe(readings))
	if err != nil {
		return nil, err
	}
	return &estimateReport{
		X:         est.Pose.Position.X,
		Y:         est.Pose.Position.Y,
		Heading:   est.Pose.Heading,
		RMS:       math.Round(est.RMS*1e4) / 1e4,
		Evaluated: est.Evaluated,
	}, nil
}

func writeReport(out io.Writer, r report) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "encode report")
	}
	return enc.Close()
}

func main() {
	configPath := flag.String("config", "config.yaml", "settings file")
	scenario := flag.String("scenario", "", "scenario file, defaults to the configured one")
	doLocalize := flag.Bool("localize", false, "also run the localizer on the readings")
	timeout := flag.Duration("timeout", 30*time.Second, "localizer time limit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	log := logging.Must(cfg.LogLevel, cfg.LogEncoding)
	defer log.Sync()

	path := cfg.Scenario
	if *scenario != "" {
		path = *scenario
	}
	w, err := field.LoadScenarioFile(path, nil)
	if err != nil {
		log.Fatal("load scenario", zap.String("path", path), zap.Error(err))
	}

	readings, err := sensor.ReadWorld(w)
	if err != nil {
		log.Fatal("read sensors", zap.Error(err))
	}
	r := buildReport(w, readings)

	if *doLocalize {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()

		start := time.Now()
		r.Estimate, err = localize(ctx, cfg.Localizer.Agent(), w, readings)
		if err != nil {
			log.Fatal("localize", zap.Error(err))
		}
		log.Info("localized", zap.Duration("took", time.Since(start)), zap.Int("evaluated", r.Estimate.Evaluated))
	}

	if err := writeReport(os.Stdout, r); err != nil {
		log.Fatal("write report", zap.Error(err))
	}
}
