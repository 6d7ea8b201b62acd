//go:build mutexatomics && !nothreads

package syncbase

func platformAtomics(x *Hub) incDecOps { return mutexAtomics{hub: x} }
