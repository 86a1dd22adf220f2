// Package cpuid exposes the platform capability bitfield consumed by the
// primitive kernels. The field set is read once, on first use, and is
// immutable afterwards; primitives take the value rather than re-probing.
package cpuid

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// Capability is a bitfield of the hardware features the library
// dispatches on.
type Capability uint32

const (
	// AESNI indicates hardware AES round instructions.
	AESNI Capability = 1 << iota
	// PCLMUL indicates carry-less multiply.
	PCLMUL
	// AVX indicates 256-bit vector registers.
	AVX
	// AVX2 indicates 256-bit integer vector operations.
	AVX2
	// AVX512 indicates 512-bit vector operations.
	AVX512
	// NEON indicates ARM advanced SIMD.
	NEON
	// SHA indicates hardware SHA extensions.
	SHA
	// RDRAND indicates an on-die hardware random number generator.
	RDRAND
)

var (
	once     sync.Once
	features Capability
)

// Features returns the capability bitfield for the running processor.
func Features() Capability {
	once.Do(func() {
		if cpu.X86.HasAES {
			features |= AESNI
		}
		if cpu.X86.HasPCLMULQDQ {
			features |= PCLMUL
		}
		if cpu.X86.HasAVX {
			features |= AVX
		}
		if cpu.X86.HasAVX2 {
			features |= AVX2
		}
		if cpu.X86.HasAVX512F {
			features |= AVX512
		}
		if cpu.X86.HasRDRAND {
			features |= RDRAND
		}
		if cpu.ARM64.HasASIMD {
			features |= NEON
		}
		if cpu.ARM64.HasAES {
			features |= AESNI
		}
		if cpu.ARM64.HasSHA3 {
			features |= SHA
		}
	})
	return features
}

// Has reports whether every capability in f is present in c.
func (c Capability) Has(f Capability) bool { return c&f == f }
