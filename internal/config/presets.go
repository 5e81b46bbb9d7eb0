package config

var Presets = map[string]*Config{
	"demo": {
		Data: ".", Assets: DefaultAssets, Addr: DefaultAddr,
		Speed: 2, Autoplay: true, Smoothing: true,
	},
	"fast": {
		Data: ".", Assets: DefaultAssets, Addr: DefaultAddr,
		Speed: 6, Autoplay: true, Smoothing: true,
	},
	"step": {
		Data: ".", Assets: DefaultAssets, Addr: DefaultAddr,
		Speed: 0, Autoplay: false, Smoothing: false,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
