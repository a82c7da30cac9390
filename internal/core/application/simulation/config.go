package simulation

import "time"

// Defaults for the simulation timing knobs. They are tuned so a single-vendor
// order plays out in about five minutes, which is long enough for a human
// observer to watch the agent move and short enough to demo.
const (
	defaultSingleVendorBudget = 5 * time.Minute
	defaultMultiVendorBudget  = 8 * time.Minute
	defaultStorePhaseCap      = 90 * time.Second
	defaultStorePhaseFraction = 0.25
	defaultDriveSteps         = 50
	defaultVendorDwell        = 2 * time.Second

	// toVendorStepShare is the share of drive steps spent reaching the vendor.
	toVendorStepShare = 0.4
	// atVendorBufferSteps models the handoff dwell between pickup and departure.
	atVendorBufferSteps = 2
)

// Config holds the timing parameters of the order lifecycle simulation.
// The zero value is usable: every field falls back to its default.
type Config struct {
	// SingleVendorBudget is the total wall-clock budget for a one-vendor order.
	SingleVendorBudget time.Duration
	// MultiVendorBudget is the total budget for a multi-vendor order. It is
	// larger because the order finishes only when the slowest agent does.
	MultiVendorBudget time.Duration
	// StorePhaseCap bounds the time spent in the three store-side phases.
	StorePhaseCap time.Duration
	// StorePhaseFraction is the share of the total budget granted to the
	// store-side phases before the cap is applied.
	StorePhaseFraction float64
	// DriveSteps is the total number of movement ticks per sub-order drive.
	DriveSteps int
	// VendorDwell is the pause at the vendor between pickup and departure.
	VendorDwell time.Duration
}

func (c Config) withDefaults() Config {
	if c.SingleVendorBudget <= 0 {
		c.SingleVendorBudget = defaultSingleVendorBudget
	}
	if c.MultiVendorBudget <= 0 {
		c.MultiVendorBudget = defaultMultiVendorBudget
	}
	if c.StorePhaseCap <= 0 {
		c.StorePhaseCap = defaultStorePhaseCap
	}
	if c.StorePhaseFraction <= 0 || c.StorePhaseFraction >= 1 {
		c.StorePhaseFraction = defaultStorePhaseFraction
	}
	if c.DriveSteps < atVendorBufferSteps+2 {
		c.DriveSteps = defaultDriveSteps
	}
	if c.VendorDwell <= 0 {
		c.VendorDwell = defaultVendorDwell
	}
	return c
}

// totalBudget picks the overall time budget by vendor count.
func (c Config) totalBudget(subOrderCount int) time.Duration {
	if subOrderCount <= 1 {
		return c.SingleVendorBudget
	}
	return c.MultiVendorBudget
}

// storeBudget is the slice of the total budget spent before agents move.
func (c Config) storeBudget(total time.Duration) time.Duration {
	fraction := time.Duration(float64(total) * c.StorePhaseFraction)
	if fraction < c.StorePhaseCap {
		return fraction
	}
	return c.StorePhaseCap
}

// stepSplit divides the drive into its three ordered segments.
func (c Config) stepSplit() (toVendor, buffer, toCustomer int) {
	toVendor = int(float64(c.DriveSteps) * toVendorStepShare)
	if toVendor < 1 {
		toVendor = 1
	}

	buffer = atVendorBufferSteps

	toCustomer = c.DriveSteps - toVendor - buffer
	if toCustomer < 1 {
		toCustomer = 1
	}

	return toVendor, buffer, toCustomer
}
