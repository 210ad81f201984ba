package config_test

import (
	"fmt"

	"github.com/actionsum/niribar/internal/config"
)

// Example of creating a default configuration
func ExampleDefault() {
	cfg := config.Default()
	fmt.Println("Format:", cfg.Output.Format)
	fmt.Println("Connect Timeout:", cfg.IPC.ConnectTimeout)
	fmt.Println("Recording:", cfg.Recorder.Enabled)
	// Output:
	// Format: json
	// Connect Timeout: 5s
	// Recording: false
}

// Example of setting the web port with validation
func ExampleConfig_SetWebPort() {
	cfg := config.Default()

	if err := cfg.SetWebPort(8080); err != nil {
		fmt.Println("Error:", err)
	} else {
		fmt.Println("Web port set to:", cfg.Web.Port)
	}

	if err := cfg.SetWebPort(70000); err != nil {
		fmt.Println("Error:", err)
	}

	// Output:
	// Web port set to: 8080
	// Error: port must be between 1 and 65535, got 70000
}

// Example of validating configuration
func ExampleConfig_Validate() {
	cfg := config.Default()

	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
	} else {
		fmt.Println("Configuration is valid")
	}

	cfg.Output.Format = "xml"
	fmt.Println(cfg.Validate())

	// Output:
	// Configuration is valid
	// output format must be json or yaml, got "xml"
}
