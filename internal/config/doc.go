// Package config loads the ytchan configuration file (TOML).
//
// Loading is split in three steps: Default fills every field, the decoded
// file overrides them, normalize trims and expands the result and Validate
// rejects unusable combinations.
package config
