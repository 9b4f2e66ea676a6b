// package options defines flag structs for the docker/podman CLI commands husk issues.
package options

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// BuildImage are the option flags for `<engine> build`.
type BuildImage struct {
	BuildArg []string          `flag:"--build-arg"` // Set build-time variables (format: key=value)
	File     string            `flag:"--file"`      // Name of the Dockerfile (default: <context>/Dockerfile)
	Label    map[string]string `flag:"--label"`     // Set metadata for an image (format: key=value)
	NoCache  bool              `flag:"--no-cache"`  // Do not use cache when building the image
	Pull     bool              `flag:"--pull"`      // Always attempt to pull newer versions of base images
	Quiet    bool              `flag:"--quiet"`     // Suppress build output and print image ID on success
	Tag      string            `flag:"--tag"`       // Name and optionally a tag (format: name:tag)
}

// RunContainer are the option flags for `<engine> run`.
type RunContainer struct {
	Detach      bool              `flag:"--detach"`      // Run container in background and print container ID
	Entrypoint  string            `flag:"--entrypoint"`  // Overwrite the default ENTRYPOINT of the image
	Env         []string          `flag:"--env"`         // Set environment variables (format: key=value)
	EnvFile     string            `flag:"--env-file"`    // Read in a file of environment variables
	Hostname    string            `flag:"--hostname"`    // Container host name
	Interactive bool              `flag:"--interactive"` // Keep STDIN open even if not attached
	Label       map[string]string `flag:"--label"`       // Set metadata on the container (format: key=value)
	Mount       []string          `flag:"--mount"`       // Attach a filesystem mount to the container (format: type=<>,source=<>,target=<>,readonly)
	Name        string            `flag:"--name"`        // Assign a name to the container
	Network     string            `flag:"--network"`     // Connect the container to a network
	Publish     []string          `flag:"--publish"`     // Publish a container's port to the host
	Remove      bool              `flag:"--rm"`          // Automatically remove the container when it exits
	TTY         bool              `flag:"--tty"`         // Allocate a pseudo-TTY
	User        string            `flag:"--user"`        // Username or UID (format: <name|uid>[:<group|gid>])
	Workdir     string            `flag:"--workdir"`     // Working directory inside the container
}

// ListContainers are the option flags for `<engine> ps`.
type ListContainers struct {
	All     bool     `flag:"--all"`      // Show all containers (default shows just running)
	Filter  []string `flag:"--filter"`   // Filter output based on conditions provided (format: key=value)
	Format  string   `flag:"--format"`   // Format output using a custom template
	NoTrunc bool     `flag:"--no-trunc"` // Don't truncate output
	Quiet   bool     `flag:"--quiet"`    // Only display container IDs
}

// StopContainer are the option flags for `<engine> stop`.
type StopContainer struct {
	Signal string `flag:"--signal"` // Signal to send to the container
	Time   int    `flag:"--time"`   // Seconds to wait before killing the container
}

// RemoveContainer are the option flags for `<engine> rm`.
type RemoveContainer struct {
	Force   bool `flag:"--force"`   // Force the removal of a running container
	Volumes bool `flag:"--volumes"` // Remove anonymous volumes associated with the container
}

// ListImages are the option flags for `<engine> image ls`.
type ListImages struct {
	All    bool     `flag:"--all"`    // Show all images (default hides intermediate images)
	Filter []string `flag:"--filter"` // Filter output based on conditions provided
	Format string   `flag:"--format"` // Format output using a custom template
}

// RemoveImage are the option flags for `<engine> image rm`.
type RemoveImage struct {
	Force   bool `flag:"--force"`    // Force removal of the image
	NoPrune bool `flag:"--no-prune"` // Do not delete untagged parent images
}

// ToArgs creates an array of strings that you can pass to exec.Command(...) as CLI args.
// Bool fields render as a bare flag, scalars as flag followed by value. Slice fields
// repeat the flag once per element, and map fields repeat it once per sorted key=value
// pair, since the docker CLI does not accept comma-joined lists for these.
// Zero-valued fields are skipped unless the tag carries a ",keepZero" suffix.
func ToArgs(s any) []string {
	var ret []string
	sv := reflect.Indirect(reflect.ValueOf(s))
	if !sv.IsValid() {
		return nil
	}
	st := sv.Type()
	for i := range st.NumField() {
		field := st.Field(i)
		flagTag, ok := field.Tag.Lookup("flag")
		if !ok {
			continue
		}
		flagParts := strings.Split(flagTag, ",")
		flagName := flagParts[0]
		keepZero := false
		if len(flagParts) > 1 {
			if strings.EqualFold(flagParts[1], "keepZero") {
				keepZero = true
			}
		}
		fv := sv.Field(i)
		v := reflect.ValueOf(fv.Interface())
		if !keepZero && v.IsZero() {
			continue
		}
		if ret == nil {
			ret = []string{}
		}
		switch field.Type.Kind() {
		case reflect.Bool:
			ret = append(ret, flagName)
		case reflect.Slice:
			for j := range v.Len() {
				ret = append(ret, flagName, fmt.Sprintf("%v", v.Index(j).Interface()))
			}
		case reflect.Map:
			m := v.Interface().(map[string]string)
			keys := slices.Sorted(maps.Keys(m))
			for _, k := range keys {
				ret = append(ret, flagName, fmt.Sprintf("%v=%v", k, m[k]))
			}
		default:
			ret = append(ret, flagName, fmt.Sprintf("%v", fv.Interface()))
		}
	}
	return ret
}
