package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var (
	convertWorkers int
	convertFormat  string
)

var convertCmd = &cobra.Command{
	Use:   "convert <path>...",
	Short: "파일과 디렉토리를 일괄 변환",
	Long: `파일 확장자에 따라 텍스트 컨테이너와 항목 목록을 일괄 변환합니다.

  .bin, .dat          → 디코딩하여 .yaml (또는 --format 형식) 저장
  .yaml, .yml, .json, .txt → 인코딩하여 .dat 저장

디렉토리를 지정하면 하위 디렉토리까지 .bin, .dat, .yaml, .yml 파일을 찾습니다.
디코딩을 모두 마친 뒤 인코딩을 수행하며, 실패한 파일은 보고 후 건너뜁니다.

예시:
  textblob convert common.dat story.yaml
  textblob convert ./message --workers 8
  textblob convert ./message --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().IntVarP(&convertWorkers, "workers", "w", 0, "동시 처리 파일 수 (기본: 설정 파일 또는 CPU 수)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "디코딩 출력 형식 (yaml, json, text)")
	_ = viper.BindPFlag("workers", convertCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(convertCmd)
}

type direction string

const (
	directionDecode direction = "decode"
	directionEncode direction = "encode"
)

// job is one file conversion of a batch.
type job struct {
	src    string
	dst    string
	dir    direction
	format string // interchange format of the entry list side
}

func runConvert(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	format := convertFormat
	if format == "" {
		format = s.cfg.Format
	}
	if _, ok := formatExt[format]; !ok {
		return fmt.Errorf("지원하지 않는 출력 형식: %s", format)
	}

	jobs, missing := collectJobs(args, format)
	for _, err := range missing {
		s.logger.Error("skipped", "err", err)
	}

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := runBatch(cmd.Context(), jobs, workers, s)

	failed := 0
	for _, err := range results {
		if err != nil {
			failed++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "변환 완료: %d개 파일, 실패 %d개\n", len(jobs)-failed, failed+len(missing))
	if failed += len(missing); failed > 0 {
		return fmt.Errorf("%d개 파일 변환 실패", failed)
	}
	return nil
}

// collectJobs expands the arguments into conversion jobs. Arguments that
// cannot be read are returned as errors instead of aborting the batch.
func collectJobs(paths []string, format string) ([]job, []error) {
	var jobs []job
	var errs []error

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("파일을 열 수 없습니다: %s: %w", p, err))
			continue
		}

		if !info.IsDir() {
			jobs = append(jobs, newJob(p, format))
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			if d.IsDir() {
				return nil
			}
			// Directory walks only pick up containers and YAML lists.
			if f, ok := formatFromPath(path); isContainerPath(path) || (ok && f == formatYAML) {
				jobs = append(jobs, newJob(path, format))
			}
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}
	}

	return jobs, errs
}

// newJob dispatches a file by extension. Anything that is not an entry
// list is treated as a container.
func newJob(path, decodeFormat string) job {
	if f, ok := formatFromPath(path); ok {
		return job{src: path, dst: containerPath(path), dir: directionEncode, format: f}
	}
	ext := filepath.Ext(path)
	return job{
		src:    path,
		dst:    strings.TrimSuffix(path, ext) + formatExt[decodeFormat],
		dir:    directionDecode,
		format: decodeFormat,
	}
}

// runBatch runs every decode job, then every encode job, on a bounded
// pool. It returns one error slot per job; a failed file never stops the
// batch. Cancelling ctx skips the jobs that have not started.
func runBatch(ctx context.Context, jobs []job, workers int, s *settings) []error {
	results := make([]error, len(jobs))

	for _, dir := range []direction{directionDecode, directionEncode} {
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)

		for i, j := range jobs {
			if j.dir != dir {
				continue
			}
			i, j := i, j
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					results[i] = err
					return nil
				}

				s.logger.Debug("processing", "file", j.src, "direction", string(j.dir))
				lines, err := runJob(j, s)
				if err != nil {
					results[i] = err
					s.logger.Error("convert failed", "file", j.src, "direction", string(j.dir), "err", err)
					return nil
				}
				s.logger.Info("converted", "file", j.src, "output", j.dst, "lines", lines, "direction", string(j.dir))
				return nil
			})
		}

		// Workers never return errors; failures are kept per job.
		_ = g.Wait()
	}

	return results
}

func runJob(j job, s *settings) (int, error) {
	switch j.dir {
	case directionEncode:
		return encodeFile(j.src, j.dst, j.format, s)
	default:
		doc, err := decodeFile(j.src, s)
		if err != nil {
			return 0, err
		}
		out, err := marshalDocument(doc, j.format, s.dialect)
		if err != nil {
			return 0, fmt.Errorf("출력 포맷팅 실패: %w", err)
		}
		if err := os.WriteFile(j.dst, out, 0644); err != nil {
			return 0, fmt.Errorf("파일 저장 실패: %w", err)
		}
		return doc.Lines(), nil
	}
}
