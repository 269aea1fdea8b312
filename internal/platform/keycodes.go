package platform

import (
	"github.com/micmonay/keybd_event"
)

// keyStroke is one physical key press, optionally shifted.
type keyStroke struct {
	code  int
	shift bool
}

// keyCodes maps printable ASCII characters to key presses on a US
// layout. Characters outside this table cannot be synthesized by the
// keybd backend; the exec backends handle arbitrary text.
var keyCodes = map[rune]keyStroke{
	'a': {code: keybd_event.VK_A}, 'A': {code: keybd_event.VK_A, shift: true},
	'b': {code: keybd_event.VK_B}, 'B': {code: keybd_event.VK_B, shift: true},
	'c': {code: keybd_event.VK_C}, 'C': {code: keybd_event.VK_C, shift: true},
	'd': {code: keybd_event.VK_D}, 'D': {code: keybd_event.VK_D, shift: true},
	'e': {code: keybd_event.VK_E}, 'E': {code: keybd_event.VK_E, shift: true},
	'f': {code: keybd_event.VK_F}, 'F': {code: keybd_event.VK_F, shift: true},
	'g': {code: keybd_event.VK_G}, 'G': {code: keybd_event.VK_G, shift: true},
	'h': {code: keybd_event.VK_H}, 'H': {code: keybd_event.VK_H, shift: true},
	'i': {code: keybd_event.VK_I}, 'I': {code: keybd_event.VK_I, shift: true},
	'j': {code: keybd_event.VK_J}, 'J': {code: keybd_event.VK_J, shift: true},
	'k': {code: keybd_event.VK_K}, 'K': {code: keybd_event.VK_K, shift: true},
	'l': {code: keybd_event.VK_L}, 'L': {code: keybd_event.VK_L, shift: true},
	'm': {code: keybd_event.VK_M}, 'M': {code: keybd_event.VK_M, shift: true},
	'n': {code: keybd_event.VK_N}, 'N': {code: keybd_event.VK_N, shift: true},
	'o': {code: keybd_event.VK_O}, 'O': {code: keybd_event.VK_O, shift: true},
	'p': {code: keybd_event.VK_P}, 'P': {code: keybd_event.VK_P, shift: true},
	'q': {code: keybd_event.VK_Q}, 'Q': {code: keybd_event.VK_Q, shift: true},
	'r': {code: keybd_event.VK_R}, 'R': {code: keybd_event.VK_R, shift: true},
	's': {code: keybd_event.VK_S}, 'S': {code: keybd_event.VK_S, shift: true},
	't': {code: keybd_event.VK_T}, 'T': {code: keybd_event.VK_T, shift: true},
	'u': {code: keybd_event.VK_U}, 'U': {code: keybd_event.VK_U, shift: true},
	'v': {code: keybd_event.VK_V}, 'V': {code: keybd_event.VK_V, shift: true},
	'w': {code: keybd_event.VK_W}, 'W': {code: keybd_event.VK_W, shift: true},
	'x': {code: keybd_event.VK_X}, 'X': {code: keybd_event.VK_X, shift: true},
	'y': {code: keybd_event.VK_Y}, 'Y': {code: keybd_event.VK_Y, shift: true},
	'z': {code: keybd_event.VK_Z}, 'Z': {code: keybd_event.VK_Z, shift: true},

	'1': {code: keybd_event.VK_1}, '!': {code: keybd_event.VK_1, shift: true},
	'2': {code: keybd_event.VK_2}, '@': {code: keybd_event.VK_2, shift: true},
	'3': {code: keybd_event.VK_3}, '#': {code: keybd_event.VK_3, shift: true},
	'4': {code: keybd_event.VK_4}, '$': {code: keybd_event.VK_4, shift: true},
	'5': {code: keybd_event.VK_5}, '%': {code: keybd_event.VK_5, shift: true},
	'6': {code: keybd_event.VK_6}, '^': {code: keybd_event.VK_6, shift: true},
	'7': {code: keybd_event.VK_7}, '&': {code: keybd_event.VK_7, shift: true},
	'8': {code: keybd_event.VK_8}, '*': {code: keybd_event.VK_8, shift: true},
	'9': {code: keybd_event.VK_9}, '(': {code: keybd_event.VK_9, shift: true},
	'0': {code: keybd_event.VK_0}, ')': {code: keybd_event.VK_0, shift: true},

	' ': {code: keybd_event.VK_SPACE},

	'-': {code: keybd_event.VK_SP1}, '_': {code: keybd_event.VK_SP1, shift: true},
	'=': {code: keybd_event.VK_SP2}, '+': {code: keybd_event.VK_SP2, shift: true},
	'[': {code: keybd_event.VK_SP3}, '{': {code: keybd_event.VK_SP3, shift: true},
	']': {code: keybd_event.VK_SP4}, '}': {code: keybd_event.VK_SP4, shift: true},
	';': {code: keybd_event.VK_SP5}, ':': {code: keybd_event.VK_SP5, shift: true},
	'\'': {code: keybd_event.VK_SP6}, '"': {code: keybd_event.VK_SP6, shift: true},
	'`': {code: keybd_event.VK_SP7}, '~': {code: keybd_event.VK_SP7, shift: true},
	'\\': {code: keybd_event.VK_SP8}, '|': {code: keybd_event.VK_SP8, shift: true},
	',': {code: keybd_event.VK_SP9}, '<': {code: keybd_event.VK_SP9, shift: true},
	'.': {code: keybd_event.VK_SP10}, '>': {code: keybd_event.VK_SP10, shift: true},
	'/': {code: keybd_event.VK_SP11}, '?': {code: keybd_event.VK_SP11, shift: true},
}
