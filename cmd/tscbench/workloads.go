package main

// Built-in workloads with known relative costs, for demonstrating the
// harness. Results are parked in package-level sinks so the compiler
// cannot eliminate the work.

var (
	sinkInt   int
	seqData   []int
	appendBuf []int
)

func init() {
	seqData = make([]int, 1000)
	for i := range seqData {
		seqData[i] = i
	}
	appendBuf = make([]int, 100, 200)
}

type workload struct {
	name string
	desc string
	op   func()
}

func builtinWorkloads() []workload {
	return []workload{
		{"empty", "no work beyond the measurement machinery", func() {}},
		{"arith", "100 dependent integer multiply-adds", func() {
			result := 0
			for i := 0; i < 100; i++ {
				result += i * 2
			}
			sinkInt = result
		}},
		{"seq-sum", "sequential sum over 1000 ints", func() {
			sum := 0
			for i := 0; i < len(seqData); i++ {
				sum += seqData[i]
			}
			sinkInt = sum
		}},
		{"stride-sum", "sum every 16th of 1000 ints (one read per cache line)", func() {
			sum := 0
			for i := 0; i < len(seqData); i += 16 {
				sum += seqData[i]
			}
			sinkInt = sum
		}},
		{"append", "append 100 ints then truncate", func() {
			for i := 100; i < 200; i++ {
				appendBuf = append(appendBuf, i)
			}
			appendBuf = appendBuf[:100]
		}},
	}
}

func findWorkload(name string) (workload, bool) {
	for _, w := range builtinWorkloads() {
		if w.name == name {
			return w, true
		}
	}
	return workload{}, false
}
