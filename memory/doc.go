// Package memory
// Author: momentics <momentics@gmail.com>
//
// Backing-region allocators for ring buffers.
// Heap regions come from the Go allocator; Mmap regions are anonymous private
// mappings outside the Go heap, optionally locked into RAM.
package memory
