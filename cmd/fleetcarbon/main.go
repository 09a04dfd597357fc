// fleetcarbon estimates weekly energy consumption and CO2 emissions for
// a fixed IT fleet, adjusting per-type power baselines with the
// operational events recorded in a JSON event store.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
