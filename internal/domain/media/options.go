package media

// Option applies a configuration option to the Validator.
type Option func(*Validator)

// WithMaxSizeBytes sets the size cap.
func WithMaxSizeBytes(n int64) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxSizeBytes = n
		}
	}
}

// WithSizeLimit turns size enforcement on or off.
func WithSizeLimit(enforce bool) Option {
	return func(v *Validator) {
		v.enforceSize = enforce
	}
}

// WithAcceptedTypes replaces the MIME allow-list.
func WithAcceptedTypes(types ...string) Option {
	return func(v *Validator) {
		if len(types) == 0 {
			return
		}
		v.accepted = make(map[string]struct{}, len(types))
		for _, t := range types {
			v.accepted[normalizeMIME(t)] = struct{}{}
		}
	}
}
