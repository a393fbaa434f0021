//go:build !windows
// +build !windows

package rowset

import (
	"errors"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Load a dynamic library on Unix systems using purego
func loadDynamicLibrary(path string) (unsafe.Pointer, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(handle), nil
}

// Close the library
func closeLibrary(handle unsafe.Pointer) {
	if handle != nil {
		purego.Dlclose(uintptr(handle))
	}
}

// Get a symbol from the library
func getSymbol(handle unsafe.Pointer, name string) (unsafe.Pointer, error) {
	if handle == nil {
		return nil, errors.New("invalid library handle")
	}

	sym, err := purego.Dlsym(uintptr(handle), name)
	if err != nil {
		return nil, err
	}

	return unsafe.Pointer(sym), nil
}

// callResultColumnCount calls the engine's column-count function
func callResultColumnCount(result uintptr) uintptr {
	ret, _, _ := purego.SyscallN(uintptr(funcResultColumnCount), result)
	return ret
}

// callResultColumnName calls the engine's column-name function, returning a
// borrowed pointer to the name bytes and writing their length to outLen
func callResultColumnName(result uintptr, idx int32, outLen *int32) unsafe.Pointer {
	ret, _, _ := purego.SyscallN(uintptr(funcResultColumnName),
		result,
		uintptr(idx),
		uintptr(unsafe.Pointer(outLen)))
	return unsafe.Pointer(ret)
}

// callResultPull calls the engine's pull function, filling cells in column order
func callResultPull(result uintptr, cells *Cell) uintptr {
	ret, _, _ := purego.SyscallN(uintptr(funcResultPull),
		result,
		uintptr(unsafe.Pointer(cells)))
	return ret
}

// callResultError calls the engine's error-message function
func callResultError(result uintptr) unsafe.Pointer {
	ret, _, _ := purego.SyscallN(uintptr(funcResultError), result)
	return unsafe.Pointer(ret)
}

// callResultChanges calls the engine's affected-rows function
func callResultChanges(result uintptr) uintptr {
	ret, _, _ := purego.SyscallN(uintptr(funcResultChanges), result)
	return ret
}
