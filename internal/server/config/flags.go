package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, hours
//	-w int      refresh candidate window size
//
// os.Args is first filtered to the flags handled here using flagx.FilterArgs
// to avoid collisions with flags owned by other components (such as the
// -c/-config pair consumed by the JSON layer).
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-r", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidity.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidity.Hours()), "refresh token validity (in hours)")

	fs.IntVar(&config.RefreshCandidateLimit, "w", config.RefreshCandidateLimit, "refresh candidate window size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// The validity flags are coarser than the duration fields they set, so
	// apply them only when given; otherwise a finer-grained value from the
	// JSON or env layers would be truncated to whole minutes or hours.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidity = time.Duration(*accessTokenValidity) * time.Minute
		case "r":
			config.RefreshTokenValidity = time.Duration(*refreshTokenValidity) * time.Hour
		}
	})
}
