// Package config resolves slipway settings from built-in defaults, an
// optional slipway.yaml file, and per-invocation flag overrides.
//
// Resolution is pure: the same inputs always produce the same Settings
// snapshot, and nothing mutates a snapshot after Resolve returns. Every
// field has a usable default, so slipway works without a config file in
// a repository that follows the standard chart layout.
package config
