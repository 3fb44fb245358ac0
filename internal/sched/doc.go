// Package sched implements a tick-driven multilevel feedback queue simulation.
//
// An Engine owns an ordered list of levels (Policy values, highest priority
// first), a backlog of processes that have not arrived yet and the ledger of
// finished processes. Each simulated unit the engine admits arrivals, lets a
// ready higher level preempt the running process, lets an STCF level swap in
// a shorter job, dispatches if the CPU is free and then executes exactly one
// unit. Round-Robin levels rotate a process to their own tail when its quantum
// is spent; there is no demotion between levels.
package sched
