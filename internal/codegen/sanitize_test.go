package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "clean input is unchanged",
			in:   "const a = 1;\nexport default a;\n",
			want: "const a = 1;\nexport default a;\n",
		},
		{
			name: "backtick fence with language tag",
			in:   "```javascript\nconst a = 1;\nconsole.log(a);\n```",
			want: "const a = 1;\nconsole.log(a);",
		},
		{
			name: "tilde fence without tag",
			in:   "~~~\nprint('hi')\n~~~\n",
			want: "print('hi')",
		},
		{
			name: "surrounding blank lines and crlf",
			in:   "\r\n```tsx\r\nlet x = <div/>;\r\n```\r\n",
			want: "let x = <div/>;",
		},
		{
			name: "only opening fence",
			in:   "```python\nprint(1)",
			want: "print(1)",
		},
		{
			name: "inner fences are kept",
			in:   "```md\n# Title\n```js\nx\n```\nend\n```",
			want: "# Title\n```js\nx\n```\nend",
		},
		{
			name: "fence only",
			in:   "```\n```",
			want: "",
		},
		{
			name: "language tag with symbols",
			in:   "```c++\nint main() {}\n```",
			want: "int main() {}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeCode(tt.in))
		})
	}
}

func TestSanitizeCode_Idempotent(t *testing.T) {
	once := SanitizeCode("```go\npackage main\n```")
	assert.Equal(t, once, SanitizeCode(once))
}
