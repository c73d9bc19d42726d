package diarize

import (
	"fmt"
	"strings"
)

// SystemPrompt frames the chat model as a diarization expert.
const SystemPrompt = "당신은 화자 분할 전문가입니다."

const promptTemplate = `- 화자 분할 해줘
- 영상 제목: %s
- 출력 형식: [화자] 대사

자막 내용:
%s
`

// BuildPrompt asks for a "[speaker] utterance" rendering of transcript. The
// transcript is embedded verbatim.
func BuildPrompt(title, transcript string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(title), transcript)
}
