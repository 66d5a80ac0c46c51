package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/openakaze/akaze"
	"github.com/openakaze/akaze/internal/debugdump"
	"github.com/openakaze/akaze/internal/persist"
	"github.com/spf13/cobra"
)

var (
	extractDebugPath string
	extractOptions   string
)

var extractCmd = &cobra.Command{
	Use:   "extract-features INPUT OUTPUT",
	Short: "Extract AKAZE features from an image",
	Long: `Extracts keypoints and descriptors from INPUT and writes them to
OUTPUT. OUTPUT's extension selects the encoding: ".json" for the
human-readable format, anything else for the compact binary format.`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractDebugPath, "debug_path", "d", "", "Directory to write debug scale-space and keypoint images to")
	extractCmd.Flags().StringVarP(&extractOptions, "options", "o", "", "A JSON file containing options; written with defaults if missing")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	start := time.Now()
	inputPath, outputPath := args[0], args[1]
	slog.Info("extracting features", "input", inputPath, "output", outputPath)

	cfg, err := loadOrWriteOptions(extractOptions)
	if err != nil {
		return err
	}

	img, err := openImage(inputPath)
	if err != nil {
		return err
	}

	evolutions, keypoints, descriptors, err := akaze.Extract(img, cfg)
	if err != nil {
		return fmt.Errorf("extract features: %w", err)
	}

	if err := persist.SaveFeatures(outputPath, persist.FeatureSet{Keypoints: keypoints, Descriptors: descriptors}); err != nil {
		return fmt.Errorf("write features: %w", err)
	}
	slog.Info("done", "features", len(keypoints))

	if extractDebugPath != "" {
		slog.Info("writing debug output since --debug_path was specified", "dir", extractDebugPath)
		if err := debugdump.DumpEvolutions(evolutions, extractDebugPath); err != nil {
			return fmt.Errorf("write debug scale space: %w", err)
		}
		overlay := debugdump.DrawKeypoints(img, keypoints)
		keypointsPath := filepath.Join(extractDebugPath, "keypoints.png")
		if err := savePNG(keypointsPath, overlay); err != nil {
			slog.Debug("could not write keypoint image, skipping", "error", err)
		} else {
			slog.Debug("wrote keypoint image successfully")
		}
	} else {
		slog.Debug("--debug_path was not given, not writing debug directory")
	}

	slog.Debug("total duration", "elapsed", time.Since(start))
	return nil
}

func loadOrWriteOptions(path string) (akaze.Config, error) {
	cfg := akaze.DefaultConfig()
	if path == "" {
		slog.Debug("using default options")
		return cfg, nil
	}

	if _, err := os.Stat(path); err == nil {
		slog.Info("reading options file", "path", path)
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read options %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse options %s: %w", path, err)
		}
		return cfg, nil
	}

	slog.Info("writing default options file", "path", path)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return cfg, fmt.Errorf("serialize default options: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return cfg, fmt.Errorf("write options %s: %w", path, err)
	}
	return cfg, nil
}
