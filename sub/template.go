package sub

import "strings"

// FormatSubURL 用客户端 id 和 email 填充订阅地址模板。
// 支持 {id}、{email} 占位符，{{ 和 }} 表示字面量的花括号。
// 出现其它占位符或花括号不成对时原样返回模板。
func FormatSubURL(template, id, email string) string {
	var sb strings.Builder
	sb.Grow(len(template) + len(id) + len(email))

	for i := 0; i < len(template); i++ {
		ch := template[i]
		switch ch {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				sb.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return template
			}
			switch template[i+1 : i+1+end] {
			case "id":
				sb.WriteString(id)
			case "email":
				sb.WriteString(email)
			default:
				return template
			}
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				sb.WriteByte('}')
				i++
				continue
			}
			return template
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}
