package elector

// Decide reduces the collected results to one decision. A successful primary
// always wins, regardless of how fast any secondary answered; otherwise the
// first successful secondary in completion order is chosen. With no success
// at all the election fails with ErrNoBackendAvailable.
func Decide(collected []Result) (Decision, error) {
	for _, result := range collected {
		if result.Kind == KindSuccess && result.Target.Primary() {
			return Decision{Payload: result.Payload, Source: result.Target}, nil
		}
	}

	for _, result := range collected {
		if result.Kind == KindSuccess {
			return Decision{Payload: result.Payload, Source: result.Target}, nil
		}
	}

	return Decision{}, ErrNoBackendAvailable
}
