package summarize

import (
	"fmt"
	"strings"

	"newscast/internal/news"
)

// SystemPrompt instructs the model to write a short spoken briefing.
const SystemPrompt = "음성 뉴스 대본 작성자입니다. 각 뉴스를 2~3문장으로 핵심만 요약하고, " +
	"일반인이 이해하기 쉬운 한 문장 해설을 덧붙이세요. 과장 금지, 출처 언급."

// UserPrompt renders the per-item request.
func UserPrompt(item news.Item) string {
	var b strings.Builder
	b.WriteString("다음 기사를 한국어로 2~3문장 브리핑 + 1문장 해설로 압축해 주세요.\n")
	b.WriteString("출력 JSON 키는 bullet(요약), explain(해설), caption(영상 자막용 2줄) 입니다.\n")
	b.WriteString("JSON만 출력:\n")
	fmt.Fprintf(&b, "제목: %s\n", item.Title)
	fmt.Fprintf(&b, "요약(원문): %s\n", item.Summary)
	fmt.Fprintf(&b, "링크: %s", item.Link)
	return b.String()
}
