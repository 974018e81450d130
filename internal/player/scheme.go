package player

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// spawnSpec is one child process to launch: a resolved program path plus
// argv, tagged with the URI scheme that produced it (for metrics). It
// does not include stdio policy — every child this supervisor launches
// discards stdout/stdin and only its stderr is captured for logging.
type spawnSpec struct {
	program string
	args    []string
	scheme  string
}

// plan is the result of dispatching a URI to its scheme handler: zero or
// more children to spawn immediately, plus zero or more to spawn after a
// warmup delay (the sopcast relay, then the local player once it has
// had time to come up).
type plan struct {
	immediate []spawnSpec
	delayed   []delayedSpawn
}

type delayedSpawn struct {
	spawnSpec
	after time.Duration
}

// errUnsupportedScheme is returned for a URI scheme the supervisor does
// not know how to play. This is not a client-visible wire error — the
// caller logs it and falls back to advancing the playlist cursor.
var errUnsupportedScheme = fmt.Errorf("player: unsupported URI scheme")

// lookPath resolves a program name via PATH. Overridable in tests so
// they don't depend on sp-sc-auth/cvlc actually being installed.
var lookPath = exec.LookPath

// buildPlan dispatches uri by its scheme (the substring before the first
// `:`, lowercased) to a launch plan.
func buildPlan(uri string, vlcStartDelay time.Duration) (plan, error) {
	scheme, rest, ok := strings.Cut(uri, ":")
	if !ok {
		return plan{}, errUnsupportedScheme
	}
	scheme = strings.ToLower(scheme)

	switch scheme {
	case "sop":
		relay, err := lookPath("sp-sc-auth")
		if err != nil {
			return plan{}, fmt.Errorf("player: resolving sp-sc-auth: %w", err)
		}
		localTarget, err := vlcSpawn("http://localhost:12345/tv.asf", scheme)
		if err != nil {
			return plan{}, err
		}
		return plan{
			immediate: []spawnSpec{{program: relay, args: []string{uri, "1234", "12345"}, scheme: scheme}},
			delayed:   []delayedSpawn{{spawnSpec: localTarget, after: vlcStartDelay}},
		}, nil

	case "file":
		path, err := decodeFileURI(rest)
		if err != nil {
			return plan{}, err
		}
		local, err := vlcSpawn(path, scheme)
		if err != nil {
			return plan{}, err
		}
		return plan{immediate: []spawnSpec{local}}, nil

	default:
		return plan{}, errUnsupportedScheme
	}
}

// decodeFileURI percent-decodes the path portion of a `file://`-style
// URI. rest is everything after the first `:`, e.g. `//%2Fhome%2Ftrack`.
func decodeFileURI(rest string) (string, error) {
	rest = strings.TrimPrefix(rest, "//")
	decoded, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("player: decoding file URI: %w", err)
	}
	return decoded, nil
}

// vlcSpawn resolves cvlc via PATH and builds its argv, prepending
// `--vout omxil_vout` on ARM hosts to enable hardware video output.
func vlcSpawn(target, scheme string) (spawnSpec, error) {
	program, err := lookPath("cvlc")
	if err != nil {
		return spawnSpec{}, fmt.Errorf("player: resolving cvlc: %w", err)
	}

	var args []string
	if isARM() {
		args = append(args, "--vout", "omxil_vout")
	}
	args = append(args, target)

	return spawnSpec{program: program, args: args, scheme: scheme}, nil
}

// isARM reports whether the local architecture is ARM.
func isARM() bool {
	return strings.HasPrefix(runtime.GOARCH, "arm")
}
