package manifest

// Observer receives lifecycle notifications from a Resolver. Methods are
// called synchronously on the evaluating goroutine; nothing they do
// affects evaluation.
type Observer interface {
	ManifestParsingStart(name string)
	ManifestParsingEnd(name string)
	FileStart(src, dst string, persist bool)
	FileEnd(src, dst string, persist, failed bool)
	VerifyStart(path string)
	VerifyEnd(path string, failed bool)
}

// NopObserver implements Observer with no-ops. Embed it to handle only
// some notifications.
type NopObserver struct{}

func (NopObserver) ManifestParsingStart(string)        {}
func (NopObserver) ManifestParsingEnd(string)          {}
func (NopObserver) FileStart(string, string, bool)     {}
func (NopObserver) FileEnd(string, string, bool, bool) {}
func (NopObserver) VerifyStart(string)                 {}
func (NopObserver) VerifyEnd(string, bool)             {}

// observers fans notifications out in registration order.
type observers []Observer

func (o observers) manifestParsingStart(name string) {
	for _, obs := range o {
		obs.ManifestParsingStart(name)
	}
}

func (o observers) manifestParsingEnd(name string) {
	for _, obs := range o {
		obs.ManifestParsingEnd(name)
	}
}

func (o observers) fileStart(src, dst string, persist bool) {
	for _, obs := range o {
		obs.FileStart(src, dst, persist)
	}
}

func (o observers) fileEnd(src, dst string, persist, failed bool) {
	for _, obs := range o {
		obs.FileEnd(src, dst, persist, failed)
	}
}

func (o observers) verifyStart(path string) {
	for _, obs := range o {
		obs.VerifyStart(path)
	}
}

func (o observers) verifyEnd(path string, failed bool) {
	for _, obs := range o {
		obs.VerifyEnd(path, failed)
	}
}
