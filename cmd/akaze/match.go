package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/openakaze/akaze"
	"github.com/openakaze/akaze/internal/persist"
	"github.com/spf13/cobra"
)

var matchThreshold float64

var matchCmd = &cobra.Command{
	Use:   "match-features FEATURES0 FEATURES1 OUTPUT",
	Short: "Match two AKAZE feature sets",
	Long: `Matches the features in FEATURES0 against FEATURES1 using Hamming
distance and RANSAC fundamental-matrix verification, writing the result
to OUTPUT.`,
	Args: cobra.ExactArgs(3),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().Float64VarP(&matchThreshold, "threshold", "t", akaze.DefaultEpsilonInlier, "RANSAC inlier distance threshold")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	start := time.Now()
	path0, path1, outputPath := args[0], args[1], args[2]
	slog.Info("matching features", "input0", path0, "input1", path1, "output", outputPath, "threshold", matchThreshold)

	features0, err := persist.LoadFeatures(path0)
	if err != nil {
		return fmt.Errorf("read %s: %w", path0, err)
	}
	features1, err := persist.LoadFeatures(path1)
	if err != nil {
		return fmt.Errorf("read %s: %w", path1, err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	matches := akaze.MatchFeatures(
		features0.Keypoints, features0.Descriptors,
		features1.Keypoints, features1.Descriptors,
		akaze.DefaultLowesRatio, akaze.DefaultRansacTrials, matchThreshold, rng,
	)

	if err := persist.SaveMatches(outputPath, persist.MatchSet{Matches: matches}); err != nil {
		return fmt.Errorf("write matches: %w", err)
	}
	slog.Debug("done", "matches", len(matches), "elapsed", time.Since(start))
	return nil
}
