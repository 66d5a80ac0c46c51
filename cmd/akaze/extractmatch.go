package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/openakaze/akaze"
	"github.com/openakaze/akaze/internal/debugdump"
	"github.com/openakaze/akaze/internal/persist"
	"github.com/spf13/cobra"
)

var extractMatchImagePath string

var extractAndMatchCmd = &cobra.Command{
	Use:   "extract-and-match INPUT_0 INPUT_1 OUTPUT_PREFIX",
	Short: "Extract and match AKAZE features for a pair of images end-to-end",
	Long: `Runs extraction on both input images and matches the results,
writing "<prefix>-extractions_0.json", "<prefix>-extractions_1.json" and
"<prefix>-matches.json". For more granular control, see extract-features
and match-features.`,
	Args: cobra.ExactArgs(3),
	RunE: runExtractAndMatch,
}

func init() {
	extractAndMatchCmd.Flags().StringVarP(&extractMatchImagePath, "match_image", "m", "", "Path to write a side-by-side match visualisation image to")
	rootCmd.AddCommand(extractAndMatchCmd)
}

func runExtractAndMatch(cmd *cobra.Command, args []string) error {
	start := time.Now()
	inputPath0, inputPath1, outputPrefix := args[0], args[1], args[2]
	slog.Info("extracting and matching", "input0", inputPath0, "input1", inputPath1, "prefix", outputPrefix)

	cfg := akaze.DefaultConfig()

	img0, err := openImage(inputPath0)
	if err != nil {
		return err
	}
	_, keypoints0, descriptors0, err := akaze.Extract(img0, cfg)
	if err != nil {
		return fmt.Errorf("extract features from %s: %w", inputPath0, err)
	}
	extractions0Path := outputPrefix + "-extractions_0.json"
	if err := persist.SaveFeatures(extractions0Path, persist.FeatureSet{Keypoints: keypoints0, Descriptors: descriptors0}); err != nil {
		return fmt.Errorf("write %s: %w", extractions0Path, err)
	}
	slog.Info("done, extracted features from image 0", "count", len(keypoints0))

	img1, err := openImage(inputPath1)
	if err != nil {
		return err
	}
	_, keypoints1, descriptors1, err := akaze.Extract(img1, cfg)
	if err != nil {
		return fmt.Errorf("extract features from %s: %w", inputPath1, err)
	}
	extractions1Path := outputPrefix + "-extractions_1.json"
	if err := persist.SaveFeatures(extractions1Path, persist.FeatureSet{Keypoints: keypoints1, Descriptors: descriptors1}); err != nil {
		return fmt.Errorf("write %s: %w", extractions1Path, err)
	}
	slog.Info("done, extracted features from image 1, proceeding with matching", "count", len(keypoints1))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	matches := akaze.MatchFeatures(
		keypoints0, descriptors0, keypoints1, descriptors1,
		akaze.DefaultLowesRatio, akaze.DefaultRansacTrials, akaze.DefaultEpsilonInlier, rng,
	)
	slog.Info("got matches", "count", len(matches))

	matchesPath := outputPrefix + "-matches.json"
	if err := persist.SaveMatches(matchesPath, persist.MatchSet{Matches: matches}); err != nil {
		return fmt.Errorf("write %s: %w", matchesPath, err)
	}

	if extractMatchImagePath != "" {
		slog.Info("writing match visualisation", "path", extractMatchImagePath)
		matchesImage := debugdump.DrawMatches(img0, img1, keypoints0, keypoints1, matches)
		if err := savePNG(extractMatchImagePath, matchesImage); err != nil {
			slog.Debug("could not write matches image, skipping", "error", err)
		} else {
			slog.Debug("wrote matches image successfully")
		}
	} else {
		slog.Debug("--match_image was not given, not writing matches image")
	}

	slog.Debug("total duration", "elapsed", time.Since(start))
	return nil
}
