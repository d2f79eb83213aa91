// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the adapter's TOML configuration document (spec.md
// §6): [ingest] and [metadata] sections, plus the match-rule tables that
// drive user-event routing and the per-object attribute overrides named in
// spec.md §4.3/§4.4.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fwtrace/reflector/internal/errclass"
)

// Ingest holds the standard ingest options shared by all four binaries.
type Ingest struct {
	ProtocolParentURL string `toml:"protocol-parent-url"`
	AllowInsecureTLS  bool   `toml:"allow-insecure-tls"`
	RunID             string `toml:"run-id"`
	TimeDomain        string `toml:"time-domain"`
}

// UserEventChannelRule renames events on a specific channel (highest
// priority user-event routing rule in spec.md §4.4).
type UserEventChannelRule struct {
	Channel string `toml:"channel"`
	Name    string `toml:"name"`
}

// UserEventFormattedStringRule renames events whose formatted string
// matches, independent of channel.
type UserEventFormattedStringRule struct {
	FormattedString string `toml:"formatted-string"`
	Name            string `toml:"name"`
}

// UserEventFmtArgAttrKeysRule supplies attribute key names for a
// (channel, format-string) pair's positional arguments, in array order.
type UserEventFmtArgAttrKeysRule struct {
	Channel       string   `toml:"channel"`
	FormatString  string   `toml:"format-string"`
	AttributeKeys []string `toml:"attribute-keys"`
}

// Metadata holds the plugin-specific metadata tables named throughout
// spec.md §4.3/§4.4.
type Metadata struct {
	// StartupTaskName overrides the default "(startup)" system-startup
	// timeline name.
	StartupTaskName string `toml:"startup-task-name"`

	// MeasurementWindow is the CPU-utilization measurement window (spec.md
	// §4.6); zero defaults to 500ms.
	MeasurementWindow time.Duration `toml:"cpu-utilization-measurement-window"`

	// InteractionMode selects "ipc", "fully-linearized", or "" (disabled).
	InteractionMode string `toml:"interaction-mode"`

	// IncludeUnknownEvents controls whether unrecognised event types are
	// emitted as synthetic events (spec.md §4.4).
	IncludeUnknownEvents bool `toml:"include-unknown-events"`

	// IgnoredObjectClasses lists object classes the translator should not
	// declare timelines for.
	IgnoredObjectClasses []string `toml:"ignored-object-classes"`

	// CustomPrintfEventID is the recorder event ID decoded as a custom
	// printf event, if configured.
	CustomPrintfEventID *uint16 `toml:"custom-printf-event-id"`

	// DeviantEventIDBase is the base recorder event ID for the six Deviant
	// mutator/mutation events, if configured.
	DeviantEventIDBase *uint16 `toml:"deviant-event-id-base"`

	UserEventChannelName          []UserEventChannelRule         `toml:"user-event-channel-name"`
	UserEventFormattedStringName  []UserEventFormattedStringRule `toml:"user-event-formatted-string-name"`
	UserEventFormatStringChannels []string                       `toml:"user-event-format-string-channels"`
	UserEventFormatString         bool                           `toml:"user-event-format-string"`
	UserEventChannel              bool                           `toml:"user-event-channel"`
	UserEventFmtArgAttrKeys       []UserEventFmtArgAttrKeysRule  `toml:"user-event-fmt-arg-attr-keys"`

	// AdditionalTimelineAttributes and OverrideTimelineAttributes are
	// merged into every declared timeline's attributes, in that priority
	// order relative to recorder-derived attributes (spec.md §4.4
	// TRACE_START).
	AdditionalTimelineAttributes map[string]string `toml:"additional-timeline-attributes"`
	OverrideTimelineAttributes   map[string]string `toml:"override-timeline-attributes"`
}

// Document is the top-level TOML document (spec.md §6).
type Document struct {
	Ingest   Ingest   `toml:"ingest"`
	Metadata Metadata `toml:"metadata"`
}

// Load reads and parses the TOML document at path.
func Load(path string) (*Document, error) {
	var doc Document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("config: %w: %w", errclass.ErrConfig, err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	switch d.Metadata.InteractionMode {
	case "", "ipc", "fully-linearized":
	default:
		return fmt.Errorf("config: %w: unknown interaction-mode %q", errclass.ErrConfig, d.Metadata.InteractionMode)
	}
	if d.Metadata.MeasurementWindow == 0 {
		d.Metadata.MeasurementWindow = 500 * time.Millisecond
	}
	return nil
}
