package common

type Module string

const (
	ModuleTON20 Module = "ton20"
)

func (m Module) String() string {
	return string(m)
}
