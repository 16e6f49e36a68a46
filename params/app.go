package params

const AppName = "drifters"

// ConfigName is the config file name, without extension, looked up in
// the home directory when --config is not given.
const ConfigName = "." + AppName

// EnvPrefix prefixes environment variables bound to config keys,
// eg. DRIFTERS_TRACKS_MODE=sink.
const EnvPrefix = "DRIFTERS"
