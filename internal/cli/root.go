// Package cli implements the textblob command line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roboco-io/textblob/internal/config"
	"github.com/roboco-io/textblob/internal/dialect"
	"github.com/roboco-io/textblob/internal/textblob"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "TEXTBLOB"

var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "textblob",
	Short: "게임 텍스트 컨테이너 디코더/인코더",
	Long: `암호화된 UTF-16 게임 텍스트 컨테이너(.dat/.bin)를 편집 가능한
YAML/JSON/태그 텍스트로 변환하고, 다시 컨테이너로 인코딩합니다.

태그 형식:
  [COMMAND 이름 인자...]   제어 명령 (예: [COMMAND WAIT 30])
  [SPECIAL 코드]           특수 문자
  [EXTDATA n]             줄별 부가 데이터
  [MINLNTH n]             최소 길이 (min-length 방언)
  \n                      줄바꿈

환경 변수:
  TEXTBLOB_CONFIG     설정 파일 경로
  TEXTBLOB_DIALECT    방언 이름
  TEXTBLOB_NO_CRYPT   암호화 비활성화
  TEXTBLOB_PADDING    패딩 정책 (auto, none, min-length, double)
  TEXTBLOB_VERBOSE    상세 로그`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 표시",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "textblob %s\n", version)
	},
}

// SetVersion sets the version reported by the CLI.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "설정 파일 경로 (기본: ~/.textblob/config.yaml)")
	pf.String("dialect", "", "컨테이너 방언 (기본: 설정 파일 또는 swsh)")
	pf.Bool("no-crypt", false, "줄 암호화 없이 처리")
	pf.String("padding", "", "패딩 정책 (auto, none, min-length, double)")
	pf.BoolP("verbose", "v", false, "상세 출력")
	pf.BoolP("quiet", "q", false, "조용한 모드")

	for _, name := range []string{"dialect", "no-crypt", "padding", "verbose", "quiet"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}

	rootCmd.AddCommand(versionCmd)
}

// initConfig enables TEXTBLOB_* environment overrides.
func initConfig() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// newLoader returns the loader for --config, $TEXTBLOB_CONFIG or the
// default location.
func newLoader() (*config.Loader, error) {
	path := cfgFile
	if path == "" {
		path = config.GetEnvOrDefault(EnvPrefix+"_CONFIG", "")
	}
	if path != "" {
		return config.NewLoaderWithPath(path), nil
	}
	return config.NewLoader()
}

// settings is the effective configuration of one command invocation:
// the config file with flag and environment overrides applied.
type settings struct {
	cfg      *config.Config
	registry *dialect.Registry
	dialect  *dialect.Dialect
	opts     textblob.Options
	logger   *slog.Logger
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	loader, err := newLoader()
	if err != nil {
		return nil, fmt.Errorf("설정 로더 초기화 실패: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("설정 로드 실패: %w", err)
	}
	return resolveSettings(cfg, cmd.ErrOrStderr())
}

func resolveSettings(cfg *config.Config, logOut io.Writer) (*settings, error) {
	if v := viper.GetString("dialect"); v != "" {
		cfg.Dialect = v
	}
	if v := viper.GetString("padding"); v != "" {
		cfg.Padding = v
	}
	if viper.GetBool("no-crypt") {
		cfg.Crypt = false
	}
	if v := viper.GetInt("workers"); v > 0 {
		cfg.Workers = v
	}

	padding, err := dialect.ParsePaddingMode(cfg.Padding)
	if err != nil {
		return nil, err
	}

	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("방언 설정 오류: %w", err)
	}
	d, err := reg.Get(cfg.Dialect)
	if err != nil {
		return nil, fmt.Errorf("알 수 없는 방언: %s (지원: %s)", cfg.Dialect, strings.Join(reg.List(), ", "))
	}

	return &settings{
		cfg:      cfg,
		registry: reg,
		dialect:  d,
		opts: textblob.Options{
			Crypt:   cfg.Crypt,
			Padding: padding,
			Dialect: d,
		},
		logger: newLogger(logOut, viper.GetBool("verbose"), viper.GetBool("quiet")),
	}, nil
}

// newLogger returns a text logger at debug level when verbose, error level
// when quiet and info level otherwise.
func newLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
