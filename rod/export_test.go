package rod

// Instance exposes the browser process abstraction to tests.
type Instance = instance

// NewTestBrowserManager creates a BrowserManager that starts browsers with
// launch instead of Chrome.
func NewTestBrowserManager(launch func() (Instance, error), opts ...ManagerOption) (*BrowserManager, error) {
	return newBrowserManager(launch, opts...)
}
