// Package cpu implements the Metal processor.
//
// The processor consists of eight 32-bit general-purpose registers (R0-R7),
// a program counter (PC), and a flat memory of 65536 32-bit cells. R0 always
// reads as zero. R7 starts at the top of usable memory and is conventionally
// used as a stack pointer. The highest memory address (IO_OUT) is an output
// port: every store to it is forwarded to the attached Port.
//
// Programs are sequences of structured Instructions. The PC indexes the
// program directly, so instruction and data storage are separate address
// spaces.
package cpu
