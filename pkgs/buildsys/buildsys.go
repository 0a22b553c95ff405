package buildsys

// BuildSystem captures shared capabilities of build helpers (CMake,
// Autotools). It keeps the common lifecycle and environment setup;
// implementations add their own extras.
type BuildSystem interface {
	// Basic paths.
	Source(dir string)
	BuildDir(dir string)
	InstallDir(dir string)

	// UsePrefix makes an installed prefix visible to the configure and
	// compile steps, so components find the install output of the ones
	// built before them.
	UsePrefix(dir string)

	// Environment helper.
	Env(key, val string)

	// Lifecycle.
	Configure(args ...string) error
	Build(args ...string) error
	Install(args ...string) error

	// Where artifacts land.
	OutputDir() string
}
