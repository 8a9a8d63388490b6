package taxonomy

// builtinEntries is the default skill table. Categories and priority tiers
// mirror the hiring signals the scoring engine weighs: core languages and
// platform skills rank critical, specialized tooling ranks lower.
var builtinEntries = []Entry{
	// Languages
	{Name: "Python", Category: CategoryLanguage, Aliases: []string{"python3", "py"}, Priority: PriorityCritical},
	{Name: "Java", Category: CategoryLanguage, Priority: PriorityCritical},
	{Name: "JavaScript", Category: CategoryLanguage, Aliases: []string{"js", "ecmascript"}, Priority: PriorityCritical},
	{Name: "TypeScript", Category: CategoryLanguage, Aliases: []string{"ts"}, Priority: PriorityCritical},
	{Name: "Go", Category: CategoryLanguage, Aliases: []string{"golang"}, Priority: PriorityCritical},
	{Name: "C++", Category: CategoryLanguage, Aliases: []string{"cpp"}, Priority: PriorityHigh},
	{Name: "C#", Category: CategoryLanguage, Aliases: []string{"csharp", "dotnet", ".net"}, Priority: PriorityHigh},
	{Name: "Ruby", Category: CategoryLanguage, Priority: PriorityMedium},
	{Name: "PHP", Category: CategoryLanguage, Priority: PriorityMedium},
	{Name: "Rust", Category: CategoryLanguage, Priority: PriorityHigh},
	{Name: "Kotlin", Category: CategoryLanguage, Priority: PriorityMedium},
	{Name: "Swift", Category: CategoryLanguage, Priority: PriorityMedium},
	{Name: "Scala", Category: CategoryLanguage, Priority: PriorityMedium},
	{Name: "R", Category: CategoryLanguage, Priority: PriorityStandard},

	// Frameworks
	{Name: "Django", Category: CategoryFramework, Priority: PriorityCritical},
	{Name: "Flask", Category: CategoryFramework, Priority: PriorityHigh},
	{Name: "FastAPI", Category: CategoryFramework, Aliases: []string{"fast api"}, Priority: PriorityHigh},
	{Name: "React", Category: CategoryFramework, Aliases: []string{"reactjs", "react.js"}, Priority: PriorityCritical},
	{Name: "Angular", Category: CategoryFramework, Aliases: []string{"angularjs"}, Priority: PriorityHigh},
	{Name: "Vue", Category: CategoryFramework, Aliases: []string{"vuejs", "vue.js"}, Priority: PriorityHigh},
	{Name: "Node.js", Category: CategoryFramework, Aliases: []string{"nodejs", "node"}, Priority: PriorityCritical},
	{Name: "Express", Category: CategoryFramework, Aliases: []string{"expressjs", "express.js"}, Priority: PriorityMedium},
	{Name: "Spring", Category: CategoryFramework, Aliases: []string{"spring boot", "springboot"}, Priority: PriorityHigh},
	{Name: "Rails", Category: CategoryFramework, Aliases: []string{"ruby on rails"}, Priority: PriorityMedium},
	{Name: "Laravel", Category: CategoryFramework, Priority: PriorityMedium},

	// Databases
	{Name: "PostgreSQL", Category: CategoryDatabase, Aliases: []string{"postgres", "psql", "pg", "sql"}, Priority: PriorityHigh},
	{Name: "MySQL", Category: CategoryDatabase, Aliases: []string{"mariadb"}, Priority: PriorityHigh},
	{Name: "MongoDB", Category: CategoryDatabase, Aliases: []string{"mongo"}, Priority: PriorityHigh},
	{Name: "Redis", Category: CategoryDatabase, Priority: PriorityHigh},
	{Name: "Elasticsearch", Category: CategoryDatabase, Aliases: []string{"elastic search", "elk"}, Priority: PriorityMedium},
	{Name: "Cassandra", Category: CategoryDatabase, Priority: PriorityStandard},
	{Name: "SQLite", Category: CategoryDatabase, Priority: PriorityStandard},
	{Name: "DynamoDB", Category: CategoryDatabase, Priority: PriorityMedium},

	// Cloud / DevOps
	{Name: "AWS", Category: CategoryCloudDevOps, Aliases: []string{"amazon web services"}, Priority: PriorityCritical},
	{Name: "Azure", Category: CategoryCloudDevOps, Aliases: []string{"microsoft azure"}, Priority: PriorityHigh},
	{Name: "GCP", Category: CategoryCloudDevOps, Aliases: []string{"google cloud", "google cloud platform"}, Priority: PriorityHigh},
	{Name: "Docker", Category: CategoryCloudDevOps, Aliases: []string{"containers", "containerization"}, Priority: PriorityCritical},
	{Name: "Kubernetes", Category: CategoryCloudDevOps, Aliases: []string{"k8s", "kube"}, Priority: PriorityCritical},
	{Name: "Terraform", Category: CategoryCloudDevOps, Priority: PriorityHigh},
	{Name: "Ansible", Category: CategoryCloudDevOps, Priority: PriorityMedium},
	{Name: "Jenkins", Category: CategoryCloudDevOps, Priority: PriorityHigh},
	{Name: "CI/CD", Category: CategoryCloudDevOps, Aliases: []string{"cicd", "continuous integration", "continuous deployment"}, Priority: PriorityHigh},
	{Name: "Linux", Category: CategoryCloudDevOps, Aliases: []string{"unix"}, Priority: PriorityMedium},
	{Name: "Nginx", Category: CategoryCloudDevOps, Priority: PriorityStandard},
	{Name: "Kafka", Category: CategoryCloudDevOps, Aliases: []string{"apache kafka"}, Priority: PriorityMedium},
	{Name: "RabbitMQ", Category: CategoryCloudDevOps, Priority: PriorityStandard},

	// Data / ML
	{Name: "Machine Learning", Category: CategoryDataML, Aliases: []string{"ml"}, Priority: PriorityHigh},
	{Name: "Deep Learning", Category: CategoryDataML, Priority: PriorityHigh},
	{Name: "TensorFlow", Category: CategoryDataML, Aliases: []string{"tf"}, Priority: PriorityHigh},
	{Name: "PyTorch", Category: CategoryDataML, Aliases: []string{"torch"}, Priority: PriorityHigh},
	{Name: "scikit-learn", Category: CategoryDataML, Aliases: []string{"sklearn", "scikit learn"}, Priority: PriorityMedium},
	{Name: "Pandas", Category: CategoryDataML, Priority: PriorityMedium},
	{Name: "NumPy", Category: CategoryDataML, Priority: PriorityMedium},
	{Name: "NLP", Category: CategoryDataML, Aliases: []string{"natural language processing"}, Priority: PriorityMedium},
	{Name: "Computer Vision", Category: CategoryDataML, Aliases: []string{"cv", "opencv"}, Priority: PriorityMedium},
	{Name: "Spark", Category: CategoryDataML, Aliases: []string{"apache spark", "pyspark"}, Priority: PriorityMedium},
	{Name: "Data Analysis", Category: CategoryDataML, Aliases: []string{"data analytics"}, Priority: PriorityStandard},

	// Testing
	{Name: "Pytest", Category: CategoryTesting, Priority: PriorityMedium},
	{Name: "Jest", Category: CategoryTesting, Priority: PriorityMedium},
	{Name: "Selenium", Category: CategoryTesting, Priority: PriorityMedium},
	{Name: "JUnit", Category: CategoryTesting, Priority: PriorityMedium},
	{Name: "Cypress", Category: CategoryTesting, Priority: PriorityStandard},
	{Name: "Unit Testing", Category: CategoryTesting, Aliases: []string{"unit tests"}, Priority: PriorityMedium},
	{Name: "TDD", Category: CategoryTesting, Aliases: []string{"test driven development", "test-driven development"}, Priority: PriorityStandard},

	// Other
	{Name: "REST", Category: CategoryOther, Aliases: []string{"rest api", "restful", "rest apis"}, Priority: PriorityMedium},
	{Name: "GraphQL", Category: CategoryOther, Priority: PriorityMedium},
	{Name: "gRPC", Category: CategoryOther, Priority: PriorityMedium},
	{Name: "Microservices", Category: CategoryOther, Aliases: []string{"micro services", "micro-services"}, Priority: PriorityMedium},
	{Name: "Git", Category: CategoryOther, Aliases: []string{"github", "gitlab"}, Priority: PriorityStandard},
	{Name: "Agile", Category: CategoryOther, Aliases: []string{"scrum"}, Priority: PriorityStandard},
	{Name: "WebSockets", Category: CategoryOther, Aliases: []string{"websocket"}, Priority: PriorityStandard},
	{Name: "OAuth", Category: CategoryOther, Aliases: []string{"oauth2"}, Priority: PriorityStandard},
	{Name: "System Design", Category: CategoryOther, Priority: PriorityStandard},
}
