// Package headless runs one capture without the panel, for scripted entry
// and batch backfills.
//
// Values come from a YAML file and are typed over whatever was extracted
// from the page. The save pipeline is the same one the panel uses, so the
// ledger, clipboard and CSV behave identically.
//
// Example configuration:
//
//	values:
//	  type: RESCHEDULED
//	  name: Jane Doe
//	  phone: 555-1212
//	  has: [Passport, SSN]
//	  weekday: Friday
//	  date: "06/05"
//	  time: "10:30 AM"
//	directory: /srv/leads
//	confirm: "no"
//	artifacts:
//	  enabled: true
//	  output_dir: .apptcapture/artifacts
//	  json: true
//	  markdown: true
//
// Example usage:
//
//	cfg, _ := headless.LoadConfig("capture.yaml")
//	exec, _ := headless.NewExecutor(deps, page, cfg)
//	if err := exec.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Artifacts:
//
// - execution.json: Full execution summary
// - summary.md: Human-readable markdown summary
package headless
