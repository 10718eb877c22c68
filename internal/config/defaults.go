package config

// Policy values accepted by organize.on_missing_subfolder.
const (
	SubfolderUseRoot = "use_root"
	SubfolderCreate  = "create"
)

// Policy values accepted by organize.alias_collision.
const (
	CollisionFirstWins = "first_wins"
	CollisionError     = "error"
)

// Formats accepted by export.formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatText = "text"
)

// Locales accepted by export.locale.
const (
	LocaleEnglish = "en"
	LocaleChinese = "zh"
)

const (
	defaultLogDir             = "~/.local/share/orgsort/logs"
	defaultStateDir           = "~/.local/share/orgsort"
	defaultLogPrefix          = "orgsort"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 60
	defaultWatchDebounce      = 3
	defaultOnMissingSubfolder = SubfolderUseRoot
	defaultAliasCollision     = CollisionFirstWins
)

// Default returns a Config populated with repository defaults. Source and
// target directories and allowed extensions have no defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Organize: Organize{
			OnMissingSubfolder: defaultOnMissingSubfolder,
			AliasCollision:     defaultAliasCollision,
		},
		Export: Export{
			LogPrefix: defaultLogPrefix,
			Formats:   []string{FormatXLSX},
			Locale:    LocaleEnglish,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		History: History{
			Enabled: true,
		},
		Watch: Watch{
			DebounceSeconds: defaultWatchDebounce,
		},
	}
}
