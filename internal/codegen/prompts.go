package codegen

import (
	"fmt"
	"strings"
)

const generateSystemPrompt = `You are an expert full-stack developer who generates complete, production-ready projects from a description.

Generate every file the project needs: package manifests, configuration, source code and styling.
Use modern practices, handle errors, and build responsive, accessible UI. Support both Arabic and
English when the description asks for it.

Respond with a single JSON object in exactly this shape:
{
  "files": {
    "package.json": "file content",
    "src/index.js": "file content"
  },
  "framework": "react|vue|angular|vanilla|nodejs|python|php",
  "language": "javascript|typescript|python|php",
  "deploymentInstructions": "step-by-step deployment instructions"
}
File paths are relative and use forward slashes.`

const improveSystemPrompt = `You are an expert developer who improves code according to specific requirements.
Return ONLY the complete improved code. Do not add explanations, markdown formatting, code fences or language tags.`

func generateUserPrompt(prompt, framework, language string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a complete project for: %s\n\n", strings.TrimSpace(prompt))
	if framework != "" {
		fmt.Fprintf(&sb, "Preferred framework: %s\n", framework)
	}
	if language != "" {
		fmt.Fprintf(&sb, "Preferred language: %s\n", language)
	}
	sb.WriteString("\nCreate all necessary files including configuration, source code, and styling.")
	return sb.String()
}

func improveUserPrompt(code, instructions string) string {
	return fmt.Sprintf(`Improve this code based on the following requirements:
%s

Original code:
%s

Return only the improved code without any markdown formatting:`, strings.TrimSpace(instructions), code)
}
