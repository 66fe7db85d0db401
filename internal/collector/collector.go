// Package collector walks selected files and directories and produces the
// ordered FileRecord sequence consumed by the output formatter.
package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bethington/contx/internal/ignore"
	"github.com/bethington/contx/internal/transform"
	"github.com/bethington/contx/internal/types"
	"github.com/bethington/contx/internal/utils"
)

const (
	// oversizeNoticeFormat is substituted for files larger than the configured limit.
	oversizeNoticeFormat = "[File too large to include: %s exceeds the %s limit]"
	// binaryNoticeFormat is substituted for files whose content sniffs as binary.
	binaryNoticeFormat = "[Binary file omitted: %s]"
	// readErrorNoticeFormat is substituted for files that could not be read.
	readErrorNoticeFormat = "[Unable to read file: %v]"
)

// Collector walks paths beneath a workspace root and resolves each eligible
// file into a FileRecord. All fields are fixed for one invocation.
type Collector struct {
	RootDirectory  string
	Matcher        *ignore.Matcher
	MaxFileSize    int64
	RemoveComments bool
	CompressCode   bool
	// ReadConcurrency bounds parallel file reads. Values below two keep
	// reads sequential. Record order is deterministic either way.
	ReadConcurrency int
	Logger          *zap.Logger
}

// NewCollector constructs a Collector for one invocation. A nil logger is
// replaced with a no-op logger.
func NewCollector(rootDirectory string, matcher *ignore.Matcher, configuration types.RunConfiguration, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		RootDirectory:  rootDirectory,
		Matcher:        matcher,
		MaxFileSize:    configuration.MaxFileSize,
		RemoveComments: configuration.RemoveComments,
		CompressCode:   configuration.CompressCode,
		Logger:         logger,
	}
}

// pendingFile is a file admitted by traversal, waiting for its content to be
// resolved. Traversal fixes the order; resolution fills the bodies.
type pendingFile struct {
	absolutePath string
	relativePath string
}

// Collect walks itemPath, which may name a file or a directory, and returns
// FileRecords in depth-first traversal order with directory contents fully
// flushed before the next sibling. Excluded paths yield nothing. Unreadable
// subdirectories log and contribute nothing; unreadable files degrade to an
// error placeholder. Cancellation via ctx stops accumulation between items
// without corrupting records already gathered.
func (fileCollector *Collector) Collect(ctx context.Context, itemPath string) ([]types.FileRecord, error) {
	itemInfo, statError := os.Stat(itemPath)
	if statError != nil {
		relativePath := utils.RelativePathOrSelf(itemPath, fileCollector.RootDirectory)
		if fileCollector.Matcher.IsExcluded(relativePath) {
			return nil, nil
		}
		fileCollector.Logger.Warn("unable to stat selected path",
			zap.String("path", itemPath),
			zap.Error(statError))
		return []types.FileRecord{{
			RelativePath: relativePath,
			Content:      fmt.Sprintf(readErrorNoticeFormat, statError),
		}}, nil
	}

	var pendingFiles []pendingFile
	if itemInfo.IsDir() {
		pendingFiles = fileCollector.gatherDirectory(ctx, itemPath)
	} else {
		pendingFiles = fileCollector.gatherFile(itemPath)
	}

	return fileCollector.resolvePending(ctx, pendingFiles)
}

// gatherFile admits a single file unless it is excluded.
func (fileCollector *Collector) gatherFile(filePath string) []pendingFile {
	relativePath := utils.RelativePathOrSelf(filePath, fileCollector.RootDirectory)
	if fileCollector.Matcher.IsExcluded(relativePath) {
		return nil
	}
	return []pendingFile{{absolutePath: filePath, relativePath: relativePath}}
}

// gatherDirectory lists directoryPath and recurses depth-first, admitting
// files in sorted listing order. A listing failure logs and yields an empty
// contribution for that subtree only.
func (fileCollector *Collector) gatherDirectory(ctx context.Context, directoryPath string) []pendingFile {
	if ctx.Err() != nil {
		return nil
	}

	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		fileCollector.Logger.Warn("skipping unreadable directory",
			zap.String("path", directoryPath),
			zap.Error(readDirectoryError))
		return nil
	}

	var gathered []pendingFile
	for _, directoryEntry := range directoryEntries {
		if ctx.Err() != nil {
			return gathered
		}
		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		relativeChildPath := utils.RelativePathOrSelf(childPath, fileCollector.RootDirectory)
		if fileCollector.Matcher.IsExcluded(relativeChildPath) {
			continue
		}
		if directoryEntry.IsDir() {
			gathered = append(gathered, fileCollector.gatherDirectory(ctx, childPath)...)
			continue
		}
		gathered = append(gathered, pendingFile{absolutePath: childPath, relativePath: relativeChildPath})
	}
	return gathered
}

// resolvePending turns admitted files into FileRecords, preserving the
// traversal order fixed by gathering. When ReadConcurrency allows, bodies are
// resolved in parallel and reassembled by index so the exposed order never
// depends on I/O timing.
func (fileCollector *Collector) resolvePending(ctx context.Context, pendingFiles []pendingFile) ([]types.FileRecord, error) {
	if len(pendingFiles) == 0 {
		return nil, nil
	}

	records := make([]types.FileRecord, len(pendingFiles))

	if fileCollector.ReadConcurrency < 2 {
		for pendingIndex, pending := range pendingFiles {
			if ctx.Err() != nil {
				return records[:pendingIndex], nil
			}
			records[pendingIndex] = fileCollector.resolveFile(pending)
		}
		return records, nil
	}

	resolveGroup, groupContext := errgroup.WithContext(ctx)
	resolveGroup.SetLimit(fileCollector.ReadConcurrency)
	for pendingIndex, pending := range pendingFiles {
		pendingIndex, pending := pendingIndex, pending
		resolveGroup.Go(func() error {
			if groupContext.Err() != nil {
				return groupContext.Err()
			}
			records[pendingIndex] = fileCollector.resolveFile(pending)
			return nil
		})
	}
	if waitError := resolveGroup.Wait(); waitError != nil {
		return nil, waitError
	}
	return records, nil
}

// resolveFile produces the FileRecord for one admitted file. Exactly one of
// the content forms is chosen: the literal (possibly transformed) text, an
// oversize notice, a binary notice, or a read-error notice.
func (fileCollector *Collector) resolveFile(pending pendingFile) types.FileRecord {
	record := types.FileRecord{RelativePath: pending.relativePath}

	fileInfo, statError := os.Stat(pending.absolutePath)
	if statError != nil {
		fileCollector.Logger.Warn("unable to stat file",
			zap.String("path", pending.absolutePath),
			zap.Error(statError))
		record.Content = fmt.Sprintf(readErrorNoticeFormat, statError)
		return record
	}

	if fileCollector.MaxFileSize > 0 && fileInfo.Size() > fileCollector.MaxFileSize {
		record.Content = fmt.Sprintf(oversizeNoticeFormat,
			utils.FormatFileSize(fileInfo.Size()),
			utils.FormatFileSize(fileCollector.MaxFileSize))
		return record
	}

	fileBytes, readError := os.ReadFile(pending.absolutePath)
	if readError != nil {
		fileCollector.Logger.Warn("unable to read file",
			zap.String("path", pending.absolutePath),
			zap.Error(readError))
		record.Content = fmt.Sprintf(readErrorNoticeFormat, readError)
		return record
	}

	if utils.IsBinary(fileBytes) {
		record.Content = fmt.Sprintf(binaryNoticeFormat, utils.DetectMimeType(fileBytes))
		return record
	}

	record.Content = transform.Apply(string(fileBytes), fileCollector.RemoveComments, fileCollector.CompressCode)
	return record
}
