// Package driver runs the top-level generate-and-validate loop: reset
// the data table to vanilla, run every randomizer component against a
// candidate seed, check the result with the reachability validator,
// and retry with a new candidate seed on any failure. On success it
// assembles the final patch from every component plus a fixed set of
// cosmetic fragments.
package driver

import (
	"errors"
	"fmt"

	"github.com/tetraly/zora-sub000/internal/baitblock"
	"github.com/tetraly/zora-sub000/internal/datatable"
	"github.com/tetraly/zora-sub000/internal/flags"
	"github.com/tetraly/zora-sub000/internal/hints"
	"github.com/tetraly/zora-sub000/internal/items"
	"github.com/tetraly/zora-sub000/internal/overworld"
	"github.com/tetraly/zora-sub000/internal/patch"
	"github.com/tetraly/zora-sub000/internal/rng"
	"github.com/tetraly/zora-sub000/internal/romimage"
	"github.com/tetraly/zora-sub000/internal/validator"
)

// maxAttempts bounds the candidate-seed retry loop; spec scenario 6
// of the original randomizer gives up rather than looping forever.
const maxAttempts = 1000

// candidateSeedBound is the exclusive upper bound used to draw a new
// candidate seed on every retry after the first attempt.
const candidateSeedBound = 9_999_999_999

var (
	// ErrUnreachable is returned when maxAttempts candidate seeds were
	// all rejected by the solvers or the validator.
	ErrUnreachable = errors.New("driver: no completable seed found within the attempt limit")
	// ErrIncompatibleFlags is returned when the flag set itself is
	// provably infeasible, independent of any seed.
	ErrIncompatibleFlags = errors.New("driver: incompatible flag combination")
	// ErrNotVanilla is returned when the input image fails the
	// race-ROM layout check before the attempt loop even starts.
	ErrNotVanilla = errors.New("driver: input ROM failed the race-ROM layout check")
)

// Result is the outcome of a successful Run: the patch to apply, its
// embedded hash code, and bookkeeping useful for logging.
type Result struct {
	Patch       *patch.Patch
	HashCode    [4]byte
	Seed        int64
	Attempts    int
	Diagnostics []string
}

// Run drives the full generate-validate-retry pipeline for one input
// image, flag set, and starting seed, returning the assembled patch on
// success.
func Run(img *romimage.Image, fl *flags.Flags, seed int64) (*Result, error) {
	if errs := fl.ValidateCompatibility(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleFlags, errs)
	}
	if err := img.CheckRaceROM(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotVanilla, err)
	}

	dt, err := datatable.New(img)
	if err != nil {
		return nil, fmt.Errorf("driver: building data table: %w", err)
	}

	candidateRNG := rng.New(seed)
	var diagnostics []string
	var candidateSeed int64
	var hintWriter *hints.Writer

	attempt := 0
	for {
		attempt++
		if attempt > maxAttempts {
			return nil, ErrUnreachable
		}

		if attempt == 1 {
			candidateSeed = seed
		} else {
			candidateSeed = candidateRNG.Int63n(candidateSeedBound)
		}

		if err := dt.Reset(img); err != nil {
			return nil, fmt.Errorf("driver: resetting data table: %w", err)
		}

		hintWriter = hints.New(rng.New(candidateSeed))

		ow := overworld.New(dt, fl, hintWriter)
		if ok, err := ow.Randomize(candidateSeed); err != nil || !ok {
			diagnostics = append(diagnostics, fmt.Sprintf("attempt %d: overworld randomization failed: %v", attempt, err))
			continue
		}

		major := items.NewMajorItemRandomizer(dt, fl)
		ok, err := major.Randomize(candidateSeed)
		if err != nil {
			var conflict *items.ConstraintConflict
			if errors.As(err, &conflict) {
				return nil, fmt.Errorf("%w: %v", ErrIncompatibleFlags, conflict)
			}
			diagnostics = append(diagnostics, fmt.Sprintf("attempt %d: major item randomizer error: %v", attempt, err))
			continue
		}
		if !ok {
			diagnostics = append(diagnostics, fmt.Sprintf("attempt %d: major item randomizer found no placement", attempt))
			continue
		}

		minor := items.NewMinorItemRandomizer(dt, fl)
		if ok, diag := minor.Randomize(candidateSeed); !ok {
			diagnostics = append(diagnostics, fmt.Sprintf("attempt %d: minor item randomizer failed: %+v", attempt, diag))
			continue
		}

		if fl.Get("increased_bait_blocks") || fl.Get("legacy_bait_blocks_alias") {
			for level := 1; level <= datatable.NumLevels; level++ {
				baitblock.Block(dt, level)
			}
		}

		applyRoomActionFlags(dt, fl)

		v := validator.New(dt, fl)
		if !v.IsSeedValid() {
			diagnostics = append(diagnostics, fmt.Sprintf("attempt %d: validator rejected seed", attempt))
			continue
		}

		break
	}

	p := dt.BuildPatch()

	if fl.Get("community_hints") {
		hintWriter.FillWithCommunityHints()
	} else {
		hintWriter.FillWithBlankHints()
	}
	hintPatch, hintDiags := hintWriter.GetPatch()
	for _, d := range hintDiags {
		diagnostics = append(diagnostics, fmt.Sprintf("hint slot %d: %s", d.Slot, d.Message))
	}
	p.Merge(hintPatch)

	for _, frag := range cosmeticFragments {
		if frag.FlagName != "" && !fl.Get(frag.FlagName) {
			continue
		}
		fragPatch, err := frag.Build(fl)
		if err != nil {
			return nil, fmt.Errorf("driver: building cosmetic fragment: %w", err)
		}
		p.Merge(fragPatch)
	}

	hashCode := p.HashCode()
	hashSpec, ok := datatable.RegionSpecFor(datatable.RegionHashCodeDisplay)
	if !ok {
		return nil, fmt.Errorf("driver: no region spec for hash code display")
	}
	p.Add(hashSpec.Location.FileOffset(), hashCode[:], nil, "hash code display")

	return &Result{
		Patch:       p,
		HashCode:    hashCode,
		Seed:        candidateSeed,
		Attempts:    attempt,
		Diagnostics: diagnostics,
	}, nil
}
