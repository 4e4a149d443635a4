package client

import "github.com/jobtrackr/jobtrackr-go/internal/model"

// SampleJob is created for accounts whose job list is empty.
func SampleJob() model.JobRequest {
	notes := "This is a sample job. Edit or delete it to start tracking your own applications!"
	return model.JobRequest{
		Company:        "Sample Company",
		Title:          "Sample Job Application",
		Status:         model.StatusApplied,
		Notes:          &notes,
		JobDescription: "This is a sample job description. Click edit to see how it works, or delete it to start fresh with your own job applications.",
	}
}

// SampleResume is stored for accounts with no resume text.
const SampleResume = `JOHN DOE
Software Engineer
Email: john.doe@email.com | Phone: (555) 123-4567 | LinkedIn: linkedin.com/in/johndoe

PROFESSIONAL SUMMARY
Experienced software engineer with 3+ years of expertise in full-stack development.
Proficient in JavaScript, TypeScript, React, Node.js, and PostgreSQL. Passionate about
building scalable web applications and solving complex technical challenges.

TECHNICAL SKILLS
• Programming Languages: JavaScript, TypeScript, Python, Java
• Frontend: React, Angular, HTML5, CSS3, Tailwind CSS
• Backend: Node.js, Express.js, RESTful APIs
• Databases: PostgreSQL, MongoDB, MySQL
• Tools: Git, Docker, AWS, CI/CD

PROFESSIONAL EXPERIENCE

Software Engineer | Tech Company Inc. | 2021 - Present
• Developed and maintained full-stack web applications using React and Node.js
• Collaborated with cross-functional teams to deliver high-quality software solutions
• Implemented RESTful APIs handling 10,000+ requests per day
• Reduced application load time by 40% through performance optimization

Junior Developer | StartupXYZ | 2020 - 2021
• Built responsive web interfaces using React and TypeScript
• Participated in agile development processes and code reviews
• Fixed critical bugs and improved application stability

EDUCATION
Bachelor of Science in Computer Science
University Name | 2016 - 2020
GPA: 3.8/4.0

PROJECTS
• JobTrackr - Full-stack job application tracker (React, Node.js, PostgreSQL)
• E-commerce Platform - Built scalable shopping cart system
• Task Management App - Real-time collaboration tool

---
This is a sample resume. Replace it with your own information!`
