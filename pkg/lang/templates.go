package lang

import "fmt"

// templates holds the starter content for new documents, keyed by language tag.
var templates = map[string]string{
	Python:     "# Python file\n# Start coding here...\n\ndef main():\n    print(\"Hello, World!\")\n\nif __name__ == \"__main__\":\n    main()\n",
	JavaScript: "// JavaScript file\n// Start coding here...\n\nfunction hello() {\n    console.log(\"Hello, World!\");\n}\n\nhello();\n",
	TypeScript: "// TypeScript file\n// Start coding here...\n\nfunction hello(): void {\n    console.log(\"Hello, World!\");\n}\n\nhello();\n",
	Java:       "// Java file\n// Start coding here...\n\npublic class Main {\n    public static void main(String[] args) {\n        System.out.println(\"Hello, World!\");\n    }\n}\n",
	CPP:        "// C++ file\n// Start coding here...\n\n#include <iostream>\n\nint main() {\n    std::cout << \"Hello, World!\" << std::endl;\n    return 0;\n}\n",
	CSharp:     "// C# file\n// Start coding here...\n\nusing System;\n\nclass Program {\n    static void Main() {\n        Console.WriteLine(\"Hello, World!\");\n    }\n}\n",
	Go:         "// Go file\n// Start coding here...\n\npackage main\n\nimport \"fmt\"\n\nfunc main() {\n    fmt.Println(\"Hello, World!\")\n}\n",
	Rust:       "// Rust file\n// Start coding here...\n\nfn main() {\n    println!(\"Hello, World!\");\n}\n",
	HTML:       "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n    <meta charset=\"UTF-8\">\n    <title>Document</title>\n</head>\n<body>\n    <h1>Hello, World!</h1>\n</body>\n</html>\n",
	CSS:        "/* CSS file */\n/* Start styling here... */\n\nbody {\n    font-family: Arial, sans-serif;\n    margin: 0;\n    padding: 20px;\n}\n",
	PHP:        "<?php\n// PHP file\n// Start coding here...\n\necho \"Hello, World!\";\n?>\n",
	Ruby:       "# Ruby file\n# Start coding here...\n\nputs \"Hello, World!\"\n",
}

// Template returns the starter content for a language. Languages without a
// dedicated template get a generic commented header.
func Template(tag string) string {
	if tpl, ok := templates[tag]; ok {
		return tpl
	}
	return fmt.Sprintf("// %s file\n// Start coding here...\n", DisplayName(tag))
}
