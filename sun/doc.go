// Package sun implements the SunScript interpreter, a small BASIC-flavoured
// teaching language. It supports:
//   - Numbers, text in single or double quotes, and the booleans True/False.
//   - Arithmetic (+, -, *, /, %, ^), comparisons, and the logical AND, OR, !.
//   - Sparse arrays indexed as A[i][j], created on first write.
//   - Print and Enter for host output and input.
//   - If/Then/Else/EndIf, Loop:i=a to b ... EndLoop:i, While ... EndWhile.
//   - Function name(a, *b) ... End, where *b is passed by reference.
//   - An optional Start ... End main block.
//
// Function definitions are hoisted, so a program may call a function defined
// further down. Each call gets its own context; recursion never disturbs a
// pending invocation.
package sun
