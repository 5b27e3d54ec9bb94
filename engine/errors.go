package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Lydiiiiia27/ups-delivery-system/notify"
	"github.com/Lydiiiiia27/ups-delivery-system/store"
	"github.com/Lydiiiiia27/ups-delivery-system/world"
)

var (
	packageIDPattern = regexp.MustCompile(`(?i)package\s*(?:id)?\s*[:#=]?\s*(\d+)`)
	truckIDPattern   = regexp.MustCompile(`(?i)truck\s*(?:id)?\s*[:#=]?\s*(\d+)`)
	numberPattern    = regexp.MustCompile(`\d+`)
)

type errTarget int

const (
	targetPackage errTarget = iota
	targetTruck
)

type errCandidate struct {
	target errTarget
	id     int64
}

// errorCandidates lists the ids a World error text may refer to, most
// specific first: a number labelled "package", one labelled "truck", then the
// first bare number tried as a package and as a truck.
func errorCandidates(text string) []errCandidate {
	var out []errCandidate
	if m := packageIDPattern.FindStringSubmatch(text); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			out = append(out, errCandidate{targetPackage, id})
		}
	}
	if m := truckIDPattern.FindStringSubmatch(text); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			out = append(out, errCandidate{targetTruck, id})
		}
	}
	if len(out) == 0 {
		if m := numberPattern.FindString(text); m != "" {
			if id, err := strconv.ParseInt(m, 10, 64); err == nil {
				out = append(out, errCandidate{targetPackage, id}, errCandidate{targetTruck, id})
			}
		}
	}
	return out
}

func (h *Handler) handleError(ctx context.Context, e world.Err) {
	h.logFn("handler: world error for seq %d: %s", e.OriginSeqNum, e.Err)
	details := fmt.Sprintf("Operation error: %s (seq: %d)", e.Err, e.OriginSeqNum)

	for _, c := range errorCandidates(e.Err) {
		switch c.target {
		case targetPackage:
			pkg, err := h.repo.GetPackage(c.id)
			if err != nil {
				continue
			}
			if pkg.Status.IsTerminal() {
				h.logFn("handler: error names package %d which is already %s", pkg.ID, pkg.Status)
				return
			}
			h.failPackage(ctx, pkg, details)
			return
		case targetTruck:
			truck, err := h.repo.GetTruck(c.id)
			if err != nil {
				continue
			}
			h.failTruck(ctx, truck, details)
			return
		}
	}
	h.broadcastError(ctx, details)
}

// failTruck resets truck to IDLE and fails its undelivered packages.
func (h *Handler) failTruck(ctx context.Context, truck *store.Truck, details string) {
	old := truck.Status
	truck.Status = store.TruckIdle
	if err := h.repo.SaveTruck(truck); err != nil {
		h.logFn("handler: save truck %d: %v", truck.ID, err)
		return
	}
	if old != truck.Status {
		h.emitter.EmitTruckStatusChanged(truck.ID, old, truck.Status, truck.X, truck.Y)
	}
	pkgs, err := h.repo.ListPackagesByTruck(truck.ID)
	if err != nil {
		h.logFn("handler: list packages for truck %d: %v", truck.ID, err)
		return
	}
	for _, pkg := range pkgs {
		if !pkg.Status.IsTerminal() {
			h.failPackage(ctx, pkg, details)
		}
	}
}

// broadcastError reports an unattributable error to every active package
// without changing state.
func (h *Handler) broadcastError(ctx context.Context, details string) {
	pkgs, err := h.repo.ListActivePackages()
	if err != nil {
		h.logFn("handler: list active packages: %v", err)
		return
	}
	for _, pkg := range pkgs {
		if _, err := h.notifier.SendStatusUpdate(ctx, pkg, h.truckFor(pkg), "ERROR", details); err != nil {
			h.notifyFailed(pkg.ID, notify.TypeStatusUpdate, err)
		}
	}
}
