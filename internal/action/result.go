package action

type haltMarker struct{}

func (haltMarker) String() string { return "halted" }

// Halted: 훅이 값 없이 체인을 중단했을 때 Process 가 반환하는 고정 센티널.
// nil, false 등 액션이 반환할 수 있는 어떤 값과도 같지 않다.
var Halted any = haltMarker{}

// IsHalted: v 가 Halted 센티널인지 확인한다.
func IsHalted(v any) bool {
	_, ok := v.(haltMarker)
	return ok
}

type resultKind int

const (
	resultContinue resultKind = iota
	resultHalt
)

// Result: 훅 실행 결과. Continue 또는 Halt(value) 중 하나다.
type Result struct {
	kind  resultKind
	value any
}

// Continue: 다음 훅(또는 액션)으로 진행한다.
func Continue() Result {
	return Result{kind: resultContinue}
}

// Halt: 남은 훅과 액션을 건너뛰고 Process 가 value 를 반환하게 한다.
func Halt(value any) Result {
	return Result{kind: resultHalt, value: value}
}

// HaltChain: Halt(Halted) 와 같다.
func HaltChain() Result {
	return Halt(Halted)
}

// IsHalt: Halt 결과인지 확인한다.
func (r Result) IsHalt() bool {
	return r.kind == resultHalt
}

// Value: Halt 에 실린 값
func (r Result) Value() any {
	return r.value
}
