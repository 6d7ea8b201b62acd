//go:build !mutexatomics && !nothreads

package syncbase

func platformAtomics(*Hub) incDecOps { return nativeAtomics{} }
