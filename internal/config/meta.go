package config

import "github.com/go-viper/mapstructure/v2"

// DecodeMeta decodes the loosely-typed PluginMeta map a resolveId/load hook
// attaches onto a module (spec.md §4.1's "custom metadata attached by
// resolveId") into a caller-supplied typed struct. Plugins exchange meta as
// plain maps so the core never needs to know their shape; consumers that do
// care about one plugin's shape use this to decode it without a type
// assertion chain.
func DecodeMeta(meta map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "meta",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(meta)
}
