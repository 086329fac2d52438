package version

// Version se sobreescribe en el build con -ldflags.
var Version = "v0.1.0"

func FullVersion() string {
	return "reviewmate " + Version
}
