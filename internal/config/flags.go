package config

import (
	"flag"
	"fmt"
	"io"
)

// ParseFlags parses the configuration flags in args (without the program
// name).
//
// Flags:
//
//	-k secret key (64 hex digits or 32 raw characters)
//	-bcrypt-cost bcrypt work factor
//	-driver database driver: sqlite or postgres
//	-d database DSN
//	-log-level log level (debug, info, warn, error)
//	-log-file log file path
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, error) {
	var (
		secretKey      string
		bcryptCost     int
		driver         string
		databaseDSN    string
		logLevel       string
		logFile        string
		jsonConfigPath string
	)

	fs := flag.NewFlagSet("vault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&secretKey, "k", "", "Secret key")
	fs.IntVar(&bcryptCost, "bcrypt-cost", 0, "bcrypt cost")
	fs.StringVar(&driver, "driver", "", "Database driver (sqlite|postgres)")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&logFile, "log-file", "", "Log file path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			SecretKey:  secretKey,
			BcryptCost: bcryptCost,
		},
		Storage: Storage{
			DB: DB{
				Driver: driver,
				DSN:    databaseDSN,
			},
		},
		Log: Log{
			Level: logLevel,
			File:  logFile,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
