package gpu

import "fmt"

// ContextError is a pending error code reported by the GPU context.
type ContextError struct {
	Code uint32
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("gpu context error 0x%04X (%s)", e.Code, codeName(e.Code))
}

func codeName(code uint32) string {
	switch code {
	case 0x0500:
		return "invalid enum"
	case 0x0501:
		return "invalid value"
	case 0x0502:
		return "invalid operation"
	case 0x0505:
		return "out of memory"
	case 0x0506:
		return "invalid framebuffer operation"
	case 0x9242:
		return "context lost"
	default:
		return "unknown"
	}
}
