// Command zoranda is the CLI entry point for the randomizer core in
// internal/driver: it reads an input ROM, runs the generate-validate
// loop against a seed and flagstring, and writes the patched output
// ROM alongside a log line describing what happened.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tetraly/zora-sub000/internal/driver"
	"github.com/tetraly/zora-sub000/internal/flags"
	"github.com/tetraly/zora-sub000/internal/romimage"
)

const version = "1.0.0"

var (
	inPath   = flag.String("in", "", "Path to the input ROM (required)")
	outPath  = flag.String("out", "", "Path to the output ROM (default: derived from -in, -seed, -flags)")
	outDir   = flag.String("outdir", ".", "Directory for the derived output filename, when -out is not given")
	seedFlag = flag.Int64("seed", 0, "Seed for the randomizer (default: derived from the current time)")
	flagStr  = flag.String("flags", "", "Flagstring over the alphabet B,C,D,F,G,H,K,L")
	flagFile = flag.String("flagfile", "", "Path to a YAML flag file (overrides -flags if given)")
	verbose  = flag.Bool("verbose", false, "Print progress and diagnostics to stderr")
	versionF = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("zoranda version %s\n", version)
		os.Exit(0)
	}

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -in is required")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	runID := uuid.New()
	start := time.Now()

	fl, err := loadFlags()
	if err != nil {
		return fmt.Errorf("loading flags: %w", err)
	}

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *inPath, err)
	}
	img, err := romimage.Load(raw)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	img.Raw = img.Copy()

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano() % 9_999_999_999
	}

	inputType := "randomized"
	if img.IsVanilla() {
		inputType = "vanilla"
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "[%s] input=%s (%s) seed=%d flags=%s\n", runID, *inPath, inputType, seed, flags.EncodeFlagstring(fl))
	}

	result, err := driver.Run(img, fl, seed)
	if err != nil {
		return fmt.Errorf("generating: %w", err)
	}

	if *verbose {
		for _, d := range result.Diagnostics {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", runID, d)
		}
	}

	output := img.Copy()
	warnings := result.Patch.Apply(output)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Error())
	}

	dest := *outPath
	if dest == "" {
		dest = filepath.Join(*outDir, deriveOutputName(*inPath, result.Seed, flags.EncodeFlagstring(fl)))
	}
	if err := os.WriteFile(dest, output, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	elapsed := time.Since(start)
	fmt.Printf("input=%s (%s) output=%s seed=%d flags=%s code=%02X%02X%02X%02X attempts=%d time=%s\n",
		*inPath, inputType, dest, result.Seed, flags.EncodeFlagstring(fl),
		result.HashCode[0], result.HashCode[1], result.HashCode[2], result.HashCode[3],
		result.Attempts, elapsed)

	return nil
}

func loadFlags() (*flags.Flags, error) {
	if *flagFile != "" {
		return flags.FromYAML(*flagFile)
	}
	return flags.DecodeFlagstring(*flagStr)
}

// deriveOutputName implements spec's output-filename rule: a fresh
// `_{seed}_{FLAGSTRING}.nes` suffix, with any prior ZORA suffix on the
// input filename preserved ahead of the new one rather than replaced.
func deriveOutputName(inputPath string, seed int64, flagstring string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	upper := strings.ToUpper(flagstring)
	seedStr := strconv.FormatInt(seed, 10)

	if priorStem, priorSuffix, ok := stripPriorZoraSuffix(stem); ok {
		return fmt.Sprintf("%s_%s_%s_%s.nes", priorStem, priorSuffix, seedStr, upper)
	}
	return fmt.Sprintf("%s_%s_%s.nes", stem, seedStr, upper)
}

// stripPriorZoraSuffix detects a `{basename}_{seed}_{flagstring}` tail
// left by an earlier randomization pass and returns the basename plus
// the `{seed}_{flagstring}` suffix to preserve, so a second pass's own
// suffix gets appended rather than overwriting the first one's.
func stripPriorZoraSuffix(stem string) (basename, priorSuffix string, ok bool) {
	parts := strings.Split(stem, "_")
	if len(parts) < 3 {
		return "", "", false
	}
	seedPart := parts[len(parts)-2]
	flagPart := parts[len(parts)-1]
	if _, err := strconv.ParseInt(seedPart, 10, 64); err != nil {
		return "", "", false
	}
	if !isFlagstring(flagPart) {
		return "", "", false
	}
	basename = strings.Join(parts[:len(parts)-2], "_")
	priorSuffix = seedPart + "_" + flagPart
	return basename, priorSuffix, true
}

func isFlagstring(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range strings.ToUpper(s) {
		if !strings.ContainsRune("BCDFGHKL", r) {
			return false
		}
	}
	return true
}
