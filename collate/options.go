package collate

import (
	"github.com/rustyeddy/collate/bucket"
)

// Options configures one engine.
type Options struct {
	// Granularity is the output bucket width.
	Granularity bucket.Granularity
	// InputGranularity is the resolution of the raw timestamps. It only
	// sizes the sub-intervals used by AutoTimeSharing. Default 1s.
	InputGranularity bucket.Granularity

	Policy          Policy
	IgnoreSameValue bool
	AutoTimeSharing bool
	BucketTimestamp BucketTimestamp
}

// Validate reports the first invalid option as a *ConfigError.
func (o Options) Validate() error {
	if !o.Policy.valid() {
		return &ConfigError{Field: "policy", Reason: o.Policy.String()}
	}
	if o.BucketTimestamp != StampStart && o.BucketTimestamp != StampEnd {
		return &ConfigError{Field: "bucket_timestamp", Reason: o.BucketTimestamp.String()}
	}
	if o.Policy != PolicyNone {
		if err := o.Granularity.Validate(); err != nil {
			return &ConfigError{Field: "granularity", Reason: err.Error()}
		}
	}
	if o.AutoTimeSharing && !o.InputGranularity.IsZero() {
		if err := o.InputGranularity.Validate(); err != nil {
			return &ConfigError{Field: "input_granularity", Reason: err.Error()}
		}
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.InputGranularity.IsZero() {
		o.InputGranularity = bucket.OneSecond
	}
	return o
}
