package pe

import (
	"strings"
	"sync"
)

// Cache indexes the TypeDef rows of every Database inserted into it by
// (namespace, name), so that a TypeDefOrRef or a dotted type name found in
// one assembly's metadata (a CustomAttribute constructor's declaring
// type, a base type named only by TypeRef) can be resolved against the
// whole set of assemblies a caller has loaded, not just the one it came
// from. Insertion order is preserved for Databases; the first Database to
// define a given (namespace, name) wins, matching how the CLR resolves a
// TypeRef against the first matching assembly on its probing path.
type Cache struct {
	mu         sync.RWMutex
	databases  []*Database
	namespaces map[string]map[string]TypeDef
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{namespaces: make(map[string]map[string]TypeDef)}
}

// Insert adds db to the cache, indexing every TypeDef it defines. It
// returns db unchanged, for chaining with the caller that opened it.
func (c *Cache) Insert(db *Database) *Database {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.databases = append(c.databases, db)
	n := db.TypeDefCount()
	for i := uint32(0); i < n; i++ {
		td, err := db.TypeDef(i)
		if err != nil {
			continue
		}
		name, err := td.Name()
		if err != nil {
			continue
		}
		namespace, err := td.Namespace()
		if err != nil {
			continue
		}
		members, ok := c.namespaces[namespace]
		if !ok {
			members = make(map[string]TypeDef)
			c.namespaces[namespace] = members
		}
		if _, taken := members[name]; !taken {
			members[name] = td
		}
	}
	return db
}

// Find looks up a TypeDef by its namespace and name across every Database
// inserted so far.
func (c *Cache) Find(namespace, name string) (TypeDef, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	members, ok := c.namespaces[namespace]
	if !ok {
		return TypeDef{}, false
	}
	td, ok := members[name]
	return td, ok
}

// Databases returns every Database inserted into the cache, in insertion
// order.
func (c *Cache) Databases() []*Database {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Database, len(c.databases))
	copy(out, c.databases)
	return out
}

// ResolveTypeName splits a dotted type name on its last '.' and looks up
// the resulting (namespace, name) pair in the cache. A name with no '.'
// is looked up as that name in the empty (global) namespace.
func (c *Cache) ResolveTypeName(fullName string) (TypeDef, bool) {
	dot := strings.LastIndexByte(fullName, '.')
	if dot < 0 {
		return c.Find("", fullName)
	}
	return c.Find(fullName[:dot], fullName[dot+1:])
}

// Resolve follows a TypeDefOrRef ElementRef to its TypeDef, resolving a
// TypeRef against the cache by (namespace, name). A reference to a
// TypeSpec never resolves: a TypeSpec names a constructed type
// (an instantiated generic, an array, ...), not a single TypeDef.
func (c *Cache) Resolve(ref ElementRef) (TypeDef, bool) {
	if td, ok := ref.AsTypeDef(); ok {
		return td, true
	}
	if tr, ok := ref.AsTypeRef(); ok {
		name, err1 := tr.Name()
		namespace, err2 := tr.Namespace()
		if err1 != nil || err2 != nil {
			return TypeDef{}, false
		}
		return c.Find(namespace, name)
	}
	return TypeDef{}, false
}
