// Package config loads the pong server's tunable settings.
//
// Settings cover the simulation cadence and the per-connection transport
// limits. They come from built-in defaults, optionally overlaid by a JSON
// file:
//
//	{
//	  "tick_interval": "50ms",
//	  "send_buffer": 256,
//	  "max_message_size": 512,
//	  "write_wait": "10s",
//	  "pong_wait": "60s",
//	  "allowed_origins": ["https://pong.example.com"]
//	}
//
// Durations are Go duration strings. Fields missing from the file keep their
// defaults. The result is validated before it is returned.
//
// Usage:
//
//	settings, err := config.Load(path) // "" for defaults
//	if err != nil {
//		log.Fatal(err)
//	}
package config
