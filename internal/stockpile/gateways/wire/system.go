package wire

import (
	"strings"

	"github.com/samber/lo"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
)

// Empty is google.protobuf.Empty.
type Empty struct{}

func (*Empty) Marshal() []byte { return nil }

func (*Empty) Unmarshal(b []byte) error {
	return decodeFields(b, func(protowire.Number, protowire.Type, []byte) (int, error) { return 0, nil })
}

// Status is rpc.Status.
type Status struct {
	Brand          string
	Version        string
	VersionFull    string
	CommitHash     string
	BuildTimestamp int64
}

func (m *Status) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Brand)
	b = appendString(b, 2, m.Version)
	b = appendString(b, 3, m.VersionFull)
	b = appendString(b, 4, m.CommitHash)
	b = appendInt64(b, 5, m.BuildTimestamp)
	return b
}

func (m *Status) Unmarshal(b []byte) error {
	*m = Status{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &m.Brand)
		case 2:
			return consumeString(num, typ, b, &m.Version)
		case 3:
			return consumeString(num, typ, b, &m.VersionFull)
		case 4:
			return consumeString(num, typ, b, &m.CommitHash)
		case 5:
			return consumeInt64(num, typ, b, &m.BuildTimestamp)
		}
		return 0, nil
	})
}

func (m *Status) Domain() domain.Status {
	return domain.Status{
		Brand:          m.Brand,
		Version:        m.Version,
		VersionFull:    m.VersionFull,
		CommitHash:     m.CommitHash,
		BuildTimestamp: epoch(m.BuildTimestamp),
	}
}

// Plugin is rpc.Plugin.
type Plugin struct {
	Name    string
	Version string
	Authors []string
	Website string
}

func (m *Plugin) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Name)
	b = appendString(b, 2, m.Version)
	b = appendStrings(b, 3, m.Authors)
	b = appendString(b, 4, m.Website)
	return b
}

func (m *Plugin) Unmarshal(b []byte) error {
	*m = Plugin{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(num, typ, b, &m.Name)
		case 2:
			return consumeString(num, typ, b, &m.Version)
		case 3:
			return consumeStrings(num, typ, b, &m.Authors)
		case 4:
			return consumeString(num, typ, b, &m.Website)
		}
		return 0, nil
	})
}

// PluginList is rpc.PluginList.
type PluginList struct {
	Plugins []*Plugin
}

func (m *PluginList) Marshal() []byte {
	var b []byte
	for _, p := range m.Plugins {
		b = appendMessage(b, 1, p)
	}
	return b
}

func (m *PluginList) Unmarshal(b []byte) error {
	*m = PluginList{}
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return 0, nil
		}
		p := &Plugin{}
		n, err := consumeMessage(num, typ, b, p)
		if err == nil {
			m.Plugins = append(m.Plugins, p)
		}
		return n, err
	})
}

// Domain converts the list. Duplicate plugins are collapsed.
func (m *PluginList) Domain() []domain.PluginMetadata {
	plugins := lo.Map(m.Plugins, func(p *Plugin, _ int) domain.PluginMetadata {
		return domain.NewPluginMetadata(p.Name, p.Version, p.Authors, p.Website)
	})
	return lo.UniqBy(plugins, func(p domain.PluginMetadata) string {
		return p.Name + "\x00" + p.Version + "\x00" + p.Website + "\x00" + strings.Join(p.Authors, ",")
	})
}
