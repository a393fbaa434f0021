package rowset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"
)

// Library loader
var (
	nativeLibOnce    sync.Once
	nativeLibLoaded  bool
	nativeLibError   error
	nativeLibPath    string
	nativeLibHandler unsafe.Pointer
)

// Dynamically loaded native function pointers
var (
	funcResultColumnCount unsafe.Pointer
	funcResultColumnName  unsafe.Pointer
	funcResultPull        unsafe.Pointer
	funcResultError       unsafe.Pointer
	funcResultChanges     unsafe.Pointer
)

// Pull return codes of the native ABI.
const (
	nativePullRow       = 1
	nativePullExhausted = 0
	nativePullError     = -1
)

// NativeSourceAvailable returns true if the engine row-source library is
// loaded and its symbols resolved.
func NativeSourceAvailable() bool {
	loadNativeLibrary()
	return nativeLibLoaded
}

// NativeLibraryError returns any error that occurred during native library
// loading.
func NativeLibraryError() error {
	loadNativeLibrary()
	return nativeLibError
}

// Attempts to load the native library. Symbols are resolved once here and
// cached for the process lifetime; no per-call lookup happens afterwards.
func loadNativeLibrary() {
	nativeLibOnce.Do(func() {
		nativeLibPath = findNativeLibraryPath()
		if nativeLibPath == "" {
			nativeLibError = errors.New("engine row-source library not found")
			return
		}

		handler, err := loadDynamicLibrary(nativeLibPath)
		if err != nil {
			nativeLibError = fmt.Errorf("failed to load engine library: %v", err)
			return
		}
		nativeLibHandler = handler

		if !loadNativeFunctions() {
			closeLibrary(nativeLibHandler)
			nativeLibError = errors.New("failed to resolve one or more engine symbols")
			return
		}

		nativeLibLoaded = true
	})
}

// Find the path to the engine library based on runtime OS and architecture
func findNativeLibraryPath() string {
	if p := os.Getenv("ROWSET_ENGINE_LIB"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		return ""
	}

	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	moduleDir := filepath.Dir(thisFile)

	var libName string
	switch runtime.GOOS {
	case "windows":
		libName = "rowsetengine.dll"
	case "darwin":
		libName = "librowsetengine.dylib"
	case "linux":
		libName = "librowsetengine.so"
	default:
		return ""
	}

	osArchPath := filepath.Join("lib", runtime.GOOS, runtime.GOARCH, libName)

	searchPaths := []string{
		filepath.Join(".", libName),
		filepath.Join(execDir, libName),
		filepath.Join(moduleDir, libName),
		filepath.Join(moduleDir, osArchPath),
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Load all engine function pointers from the library
func loadNativeFunctions() bool {
	var err error

	funcResultColumnCount, err = getSymbol(nativeLibHandler, "rowset_result_column_count")
	if err != nil {
		return false
	}

	funcResultColumnName, err = getSymbol(nativeLibHandler, "rowset_result_column_name")
	if err != nil {
		return false
	}

	funcResultPull, err = getSymbol(nativeLibHandler, "rowset_result_pull")
	if err != nil {
		return false
	}

	funcResultError, err = getSymbol(nativeLibHandler, "rowset_result_error")
	if err != nil {
		return false
	}

	funcResultChanges, err = getSymbol(nativeLibHandler, "rowset_result_changes")
	if err != nil {
		return false
	}

	return true
}

// NativeSource is a RowSource over an engine result cursor exported from the
// engine's shared library. The cursor handle and all memory its cells point
// into are owned by the engine; this side only borrows per the cell protocol.
//
// The native ABI:
//
//	int32_t  rowset_result_column_count(uintptr_t result);
//	uint8_t* rowset_result_column_name(uintptr_t result, int32_t idx, int32_t* len);
//	int32_t  rowset_result_pull(uintptr_t result, Cell* cells);  // 1 row, 0 exhausted, -1 error
//	char*    rowset_result_error(uintptr_t result);              // NUL-terminated
//	int64_t  rowset_result_changes(uintptr_t result);
type NativeSource struct {
	result  uintptr
	columns []Column
}

// NewNativeSource wraps an engine result cursor handle. The column list is
// read once; it is stable for the cursor's lifetime.
func NewNativeSource(result uintptr) (*NativeSource, error) {
	loadNativeLibrary()
	if !nativeLibLoaded {
		return nil, WrapError(ErrNative, "engine library unavailable", nativeLibError)
	}
	if result == 0 {
		return nil, NewError(ErrNative, "nil result cursor handle")
	}

	count := int(int32(callResultColumnCount(result)))
	if count < 0 {
		return nil, NewError(ErrProtocol, fmt.Sprintf("engine reported %d columns", count))
	}

	columns := make([]Column, count)
	for i := 0; i < count; i++ {
		var nameLen int32
		ptr := callResultColumnName(result, int32(i), &nameLen)
		if ptr == nil || nameLen <= 0 {
			columns[i] = Column{}
			continue
		}
		// Borrowed name bytes; BuildShape interns them into owned strings.
		columns[i] = Column{Name: unsafe.String((*byte)(ptr), int(nameLen))}
	}

	return &NativeSource{result: result, columns: columns}, nil
}

// Columns returns the ordered column list.
func (n *NativeSource) Columns() []Column {
	return n.columns
}

// Pull asks the engine to advance its cursor and fill buf in column order.
func (n *NativeSource) Pull(buf []Cell) (bool, error) {
	if len(buf) < len(n.columns) {
		return false, NewError(ErrResource,
			fmt.Sprintf("row buffer holds %d cells, need %d", len(buf), len(n.columns)))
	}
	var cells *Cell
	if len(buf) > 0 {
		cells = &buf[0]
	}
	switch rc := int32(callResultPull(n.result, cells)); rc {
	case nativePullRow:
		return true, nil
	case nativePullExhausted:
		return false, nil
	default:
		msg := goStringFromC(callResultError(n.result))
		if msg == "" {
			msg = fmt.Sprintf("engine pull failed with code %d", rc)
		}
		return false, NewError(ErrStream, msg)
	}
}

// Changes returns the engine's affected-row count for DML executions.
func (n *NativeSource) Changes() int64 {
	return int64(callResultChanges(n.result))
}

// goStringFromC copies a NUL-terminated engine string into an owned Go string.
func goStringFromC(ptr unsafe.Pointer) string {
	if ptr == nil {
		return ""
	}
	var length int
	for {
		if *(*byte)(unsafe.Add(ptr, length)) == 0 {
			break
		}
		length++
	}
	if length == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(ptr), length))
}
