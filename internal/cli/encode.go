package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/textblob/internal/textblob"
)

var (
	encodeOutput string
	encodeFormat string
)

var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "편집한 항목 목록을 텍스트 컨테이너로 인코딩",
	Long: `YAML/JSON/태그 텍스트 항목 목록을 암호화된 텍스트 컨테이너로 인코딩합니다.

입력 형식은 확장자(.yaml, .yml, .json, .txt)로 판단하며 --format으로 지정할 수 있습니다.
항목의 text를 수정하면 syntax-tree 대신 수정된 text가 다시 파싱되어 사용됩니다.

예시:
  textblob encode common.yaml
  textblob encode common.yaml -o common.dat
  textblob encode lines.txt --dialect swsh-remap -o lines.dat`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "출력 파일 경로 (기본: 입력 파일명.dat)")
	encodeCmd.Flags().StringVarP(&encodeFormat, "format", "f", "", "입력 형식 (yaml, json, text)")

	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	format := encodeFormat
	if format == "" {
		f, ok := formatFromPath(inputPath)
		if !ok {
			return fmt.Errorf("지원하지 않는 파일 형식입니다: %s", filepath.Ext(inputPath))
		}
		format = f
	}

	output := encodeOutput
	if output == "" {
		output = containerPath(inputPath)
	}

	lines, err := encodeFile(inputPath, output, format, s)
	if err != nil {
		return err
	}
	s.logger.Info("encoded", "file", inputPath, "output", output, "lines", lines)
	return nil
}

// encodeFile encodes the entry list at src and writes the container to dst.
func encodeFile(src, dst, format string, s *settings) (int, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("파일을 찾을 수 없습니다: %s", src)
		}
		return 0, fmt.Errorf("파일 읽기 실패: %w", err)
	}

	entries, err := unmarshalEntries(data, format, s.dialect)
	if err != nil {
		return 0, fmt.Errorf("입력 파싱 실패 %s: %w", src, err)
	}

	blob, err := textblob.Encode(entries, s.opts)
	if err != nil {
		return 0, fmt.Errorf("인코딩 실패 %s: %w", src, err)
	}

	if err := os.WriteFile(dst, blob, 0644); err != nil {
		return 0, fmt.Errorf("파일 저장 실패: %w", err)
	}
	s.logger.Debug("container encoded", "file", src, "bytes", len(blob), "lines", len(entries),
		"dialect", s.dialect.Name(), "crypt", s.opts.Crypt)
	return len(entries), nil
}

// containerPath returns path with its extension replaced by .dat.
func containerPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".dat"
}
