package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/pool/fixed"
	"github.com/joshuapare/poolkit/pool/printer"
)

var (
	fixedSlotSize  int32
	fixedSlotCount int32
)

func init() {
	cmd := newFixedCmd()
	cmd.Flags().Int32Var(&fixedSlotSize, "slot-size", format.DefaultSlotSize, "Bytes per slot (8-aligned)")
	cmd.Flags().Int32Var(&fixedSlotCount, "slot-count", format.DefaultSlotCount, "Number of slots")
	rootCmd.AddCommand(cmd)
}

func newFixedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixed",
		Short: "Run a scripted scenario on the fixed-size engine",
		Long: `The fixed command drives the fixed-size engine: it fills every slot,
shows the rejection of oversized requests and double frees, and demonstrates
that the most recently freed slot is the next one granted.

Example:
  poolctl fixed
  poolctl fixed --slot-size 32 --slot-count 8 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixed()
		},
	}
	return cmd
}

func runFixed() error {
	a, err := fixed.New(fixed.Config{SlotSize: fixedSlotSize, SlotCount: fixedSlotCount})
	if err != nil {
		return err
	}
	defer a.Close()

	pr := printer.New(os.Stdout, printer.Options{Format: outputFormat()})
	dump := func(stage string) error {
		printInfo("--- %s ---\n", stage)
		return pr.Slots(a.Dump())
	}

	if err := dump("fresh slots"); err != nil {
		return err
	}

	// Fill every slot; the request size is irrelevant below the slot size.
	refs := make([]fixed.Ref, 0, fixedSlotCount)
	for {
		r, _, err := a.Alloc(1)
		if errors.Is(err, fixed.ErrOutOfMemory) {
			break
		}
		if err != nil {
			return err
		}
		refs = append(refs, r)
	}
	printInfo("exhausted after %d grants\n", len(refs))
	if err := dump("all slots used"); err != nil {
		return err
	}

	if _, _, err := a.Alloc(uint32(fixedSlotSize) + 1); !errors.Is(err, fixed.ErrTooLarge) {
		return fmt.Errorf("oversized request not rejected: %v", err)
	}
	printInfo("oversized request rejected: ok\n")

	if err := a.Free(fixed.InvalidRef); !errors.Is(err, fixed.ErrInvalidPointer) {
		return fmt.Errorf("invalid handle not rejected: %v", err)
	}
	printInfo("invalid handle rejected: ok\n")

	// Free the first slot twice: the second attempt must be rejected.
	if err := a.Free(refs[0]); err != nil {
		return err
	}
	if err := a.Free(refs[0]); !errors.Is(err, fixed.ErrDoubleFree) {
		return fmt.Errorf("double free not rejected: %v", err)
	}
	printInfo("double free rejected: ok\n")

	// LIFO reuse: the slot we just freed comes straight back.
	r, _, err := a.Alloc(1)
	if err != nil {
		return err
	}
	if r != refs[0] {
		return fmt.Errorf("expected slot 0x%X to be reused, got 0x%X", refs[0], r)
	}
	printInfo("freed slot reused first: ok\n")

	for _, ref := range refs {
		if err := a.Free(ref); err != nil {
			return err
		}
	}
	return dump("after draining")
}
