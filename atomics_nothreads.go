//go:build nothreads

package syncbase

func platformAtomics(*Hub) incDecOps { return unsyncAtomics{} }
